// Package validate post-processes cited evidence: it links sources to known
// journals and optionally checks that source URLs are alive.
package validate

import (
	"net/url"
	"strings"

	"github.com/trustlens/trustlens/internal/model"
)

// JournalClassifier matches cited sources against the known-journal catalog
// and a configured list of trusted domains. It is built from a snapshot of the
// catalog, so one analysis run sees a consistent view.
type JournalClassifier struct {
	byName         map[string]*model.Journal
	byDomain       map[string]*model.Journal
	trustedDomains []string
}

// NewJournalClassifier builds a classifier from the journal catalog and extra
// trusted domains from configuration.
func NewJournalClassifier(journals []model.Journal, trustedDomains []string) *JournalClassifier {
	c := &JournalClassifier{
		byName:         make(map[string]*model.Journal, len(journals)),
		byDomain:       make(map[string]*model.Journal),
		trustedDomains: trustedDomains,
	}
	for i := range journals {
		j := &journals[i]
		c.byName[foldJournalName(j.Name)] = j
		if j.Domain != "" {
			c.byDomain[strings.ToLower(j.Domain)] = j
		}
	}
	return c
}

// Classify annotates a source with the matching catalog journal, if any, and
// whether the source counts as trusted. A source is trusted when it matches a
// trusted catalog journal or its URL sits on a trusted domain.
func (c *JournalClassifier) Classify(src *model.EvidenceSource) {
	journal := c.match(src)
	if journal != nil {
		id := journal.ID
		src.JournalID = &id
		src.TrustedJournal = journal.TrustedSource
		return
	}
	src.TrustedJournal = c.onTrustedDomain(src.URL)
}

func (c *JournalClassifier) match(src *model.EvidenceSource) *model.Journal {
	if src.Name != "" {
		if j, ok := c.byName[foldJournalName(src.Name)]; ok {
			return j
		}
	}
	if host := hostOf(src.URL); host != "" {
		for domain, j := range c.byDomain {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return j
			}
		}
	}
	return nil
}

func (c *JournalClassifier) onTrustedDomain(rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	for _, domain := range c.trustedDomains {
		domain = strings.ToLower(domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return host
}

func foldJournalName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
