package validate

import (
	"testing"

	"github.com/google/uuid"

	"github.com/trustlens/trustlens/internal/model"
)

func testCatalog() []model.Journal {
	return []model.Journal{
		{ID: uuid.New(), Name: "The Lancet", Domain: "thelancet.com", TrustedSource: true},
		{ID: uuid.New(), Name: "Predatory Wellness Review", Domain: "predwell.example", TrustedSource: false},
	}
}

func TestClassify_MatchByName(t *testing.T) {
	journals := testCatalog()
	c := NewJournalClassifier(journals, nil)

	tests := []struct {
		name        string
		sourceName  string
		wantTrusted bool
		wantJournal bool
	}{
		{"exact", "The Lancet", true, true},
		{"case and spacing folded", "  the   LANCET ", true, true},
		{"untrusted catalog entry", "Predatory Wellness Review", false, true},
		{"unknown", "Some Blog", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := model.EvidenceSource{Name: tt.sourceName}
			c.Classify(&src)
			if src.TrustedJournal != tt.wantTrusted {
				t.Errorf("trusted = %v, want %v", src.TrustedJournal, tt.wantTrusted)
			}
			if (src.JournalID != nil) != tt.wantJournal {
				t.Errorf("journal linked = %v, want %v", src.JournalID != nil, tt.wantJournal)
			}
			if src.JournalID != nil && *src.JournalID != journals[journalIndex(tt.sourceName)].ID {
				t.Errorf("linked wrong journal")
			}
		})
	}
}

func journalIndex(name string) int {
	if foldJournalName(name) == "the lancet" {
		return 0
	}
	return 1
}

func TestClassify_MatchByDomain(t *testing.T) {
	c := NewJournalClassifier(testCatalog(), nil)

	src := model.EvidenceSource{Name: "Lancet (online)", URL: "https://www.thelancet.com/journals/lancet/article/x"}
	c.Classify(&src)

	if src.JournalID == nil {
		t.Fatal("expected domain match to link the journal")
	}
	if !src.TrustedJournal {
		t.Error("expected domain match to carry the journal's trust flag")
	}
}

func TestClassify_TrustedDomainFallback(t *testing.T) {
	c := NewJournalClassifier(nil, []string{"nih.gov", "who.int"})

	tests := []struct {
		url  string
		want bool
	}{
		{"https://pubmed.ncbi.nlm.nih.gov/12345/", true},
		{"https://www.who.int/news/item/x", true},
		{"https://notnih.gov.evil.example/x", false},
		{"https://randomblog.example/post", false},
		{"", false},
		{"://bad-url", false},
	}

	for _, tt := range tests {
		src := model.EvidenceSource{URL: tt.url}
		c.Classify(&src)
		if src.TrustedJournal != tt.want {
			t.Errorf("Classify(%q): trusted = %v, want %v", tt.url, src.TrustedJournal, tt.want)
		}
		if src.JournalID != nil {
			t.Errorf("Classify(%q): unexpected journal link", tt.url)
		}
	}
}
