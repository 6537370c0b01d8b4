// Package facts provides the curated fact lookup.
// A handful of very common intents (location, facilities, fees,
// examinations) get short, manually maintained answers so critical
// queries never depend on retrieval quality. Implements ports.FactSource.
package facts

import "strings"

// Entry is one curated fact answer.
type Entry struct {
	Key    string
	Answer string
}

// Store maps question intents to curated answers.
type Store struct {
	entries map[string]Entry
	intents map[string][]string
}

// NewStore creates the fact store with the default campus entries.
// The answers are intentionally short and factual; update them here
// directly if a detail changes on the official website.
func NewStore() *Store {
	return &Store{
		entries: map[string]Entry{
			"location": {
				Key: "location",
				Answer: "Dayananda Sagar College of Engineering (DSCE) is located at " +
					"Kumaraswamy Layout, Bangalore – 560 111, Karnataka, India.",
			},
			"facilities": {
				Key: "facilities",
				Answer: "The college provides major on-campus facilities including a hospital, " +
					"library, hostels, data center, sports and fitness infrastructure, " +
					"counselling center, yoga and meditation center, and a centre for " +
					"performing arts. For full details, refer to the Facilities section on " +
					"the official DSCE website.",
			},
			"fees": {
				Key: "fees",
				Answer: "Fee details for various programs are published in the 'Fee Structure' " +
					"section under Admissions on the official DSCE website. Please refer to " +
					"that page for the latest and most accurate fee information.",
			},
			"examinations": {
				Key: "examinations",
				Answer: "Examination-related notifications, timetables, and circulars are " +
					"published in the Examination section of the official DSCE website. " +
					"Students should regularly check that section for the latest updates.",
			},
		},
		intents: map[string][]string{
			"location": {
				"where is the college",
				"college location",
				"where is dsce",
				"address",
				"kumaraswamy",
				"bangalore location",
			},
			"facilities": {
				"facilities",
				"facility",
				"campus facilities",
				"infrastructure",
				"hostel facilities",
				"library facilities",
			},
			"fees": {
				"fees",
				"fee structure",
				"academic fees",
				"course fee",
				"tuition fee",
			},
			"examinations": {
				"exam",
				"examination",
				"exam notification",
				"exam notifications",
				"examination notifications",
				"exam timetable",
				"examination timetable",
			},
		},
	}
}

// Answer returns a curated answer when the question clearly matches a
// known intent, and false otherwise.
func (s *Store) Answer(question string) (string, bool) {
	key := s.detectKey(question)
	if key == "" {
		return "", false
	}
	entry, ok := s.entries[key]
	if !ok {
		return "", false
	}
	return entry.Answer, true
}

// detectKey matches the question against intent phrases first, then a
// few bare keywords for short queries.
func (s *Store) detectKey(question string) string {
	q := strings.ToLower(question)

	for key, phrases := range s.intents {
		for _, phrase := range phrases {
			if strings.Contains(q, phrase) {
				return key
			}
		}
	}

	switch {
	case strings.Contains(q, "fees"), strings.Contains(q, "fee"):
		return "fees"
	case strings.Contains(q, "facility"), strings.Contains(q, "facilities"), strings.Contains(q, "infrastructure"):
		return "facilities"
	case strings.Contains(q, "exam"), strings.Contains(q, "examination"):
		return "examinations"
	case strings.Contains(q, "location"), strings.Contains(q, "address"):
		return "location"
	}
	return ""
}
