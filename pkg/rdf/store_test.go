package rdf

import "testing"

func TestMemStoreTriplesFiltersBySubjectPredicateObject(t *testing.T) {
	s := NewMemStore()
	s.AddURI("a", "p", "b")
	s.AddURI("a", "p", "c")
	s.AddURI("d", "p", "b")

	if got := s.Triples("a", "", ""); len(got) != 2 {
		t.Errorf("expected 2 triples for subject a, got %d", len(got))
	}
	if got := s.Triples("", "", "b"); len(got) != 2 {
		t.Errorf("expected 2 triples for object b, got %d", len(got))
	}
	if got := s.Triples("a", "p", "c"); len(got) != 1 {
		t.Errorf("expected exactly 1 fully-specified triple, got %d", len(got))
	}
	if got := s.Triples("nonexistent", "", ""); len(got) != 0 {
		t.Errorf("expected 0 triples for an unknown subject, got %d", len(got))
	}
}

func TestMemStoreSubjectsOfTypeDeduplicatesAndIgnoresLiterals(t *testing.T) {
	s := NewMemStore()
	s.AddURI("a", rdfType, "Space")
	s.AddURI("a", rdfType, "Space")
	s.AddURI("b", rdfType, "Space")
	s.AddLiteral("c", rdfType, "Space")

	got := s.SubjectsOfType("Space")
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct subjects, got %d: %v", len(got), got)
	}
}

func TestAddLiteralMarksObjectAsLiteral(t *testing.T) {
	s := NewMemStore()
	s.AddLiteral("a", "p", "hello")
	triples := s.Triples("a", "p", "")
	if len(triples) != 1 || !triples[0].IsLiteral {
		t.Fatalf("expected a literal triple, got %+v", triples)
	}
}
