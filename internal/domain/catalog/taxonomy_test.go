package catalog

import "testing"

func TestEmbeddedTaxonomy(t *testing.T) {
	tax, err := LoadTaxonomy()
	if err != nil {
		t.Fatalf("LoadTaxonomy: %v", err)
	}
	grades := tax.GradeNames()
	if len(grades) != 4 || grades[0] != "9" || grades[3] != "12" {
		t.Fatalf("grades: %v", grades)
	}
	subjects := tax.SubjectsFor("11")
	seen := map[string]int{}
	for _, s := range subjects {
		seen[s]++
	}
	if seen["Physics"] != 1 || seen["Accounts"] != 1 || seen["English"] != 1 {
		t.Fatalf("subjects for 11: %v", subjects)
	}
	if tax.SubjectsFor("7") != nil {
		t.Fatalf("uncurated grade should return nil")
	}
	if len(tax.Defaults.Subjects) == 0 {
		t.Fatalf("defaults missing")
	}
}
