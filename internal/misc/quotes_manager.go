package misc

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"

	log "github.com/sirupsen/logrus"
)

// Quote is a single motivational quote shown on the dashboard.
type Quote struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

type QuotesManager struct {
	Quotes         []*Quote
	CategoryQuotes map[string][]*Quote
}

// NewQuotesManager reads quotes from a TEXT;AUTHOR;CATEGORY csv.
func NewQuotesManager(quotesCsvReader *csv.Reader) (*QuotesManager, error) {
	qm := &QuotesManager{
		CategoryQuotes: make(map[string][]*Quote),
	}

	log.Println("reading quotes CSV ...")

	quotesCsvReader.Comma = ';'
	for {
		record, err := quotesCsvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) != 3 {
			return nil, fmt.Errorf("record [%s] does not have 3 elements", record)
		}

		quote := &Quote{
			Text:     record[0],
			Author:   record[1],
			Category: record[2],
		}
		qm.Quotes = append(qm.Quotes, quote)
		qm.CategoryQuotes[quote.Category] = append(qm.CategoryQuotes[quote.Category], quote)
	}

	if len(qm.Quotes) == 0 {
		return nil, fmt.Errorf("no quotes found in csv")
	}

	log.Printf("loaded %d quotes", len(qm.Quotes))

	return qm, nil
}

func (qm *QuotesManager) RandomQuote() Quote {
	return *qm.Quotes[rand.Intn(len(qm.Quotes))]
}

// RandomQuoteByCategory falls back to any quote for an unknown category.
func (qm *QuotesManager) RandomQuoteByCategory(category string) Quote {
	quotes, ok := qm.CategoryQuotes[category]
	if !ok || len(quotes) == 0 {
		return qm.RandomQuote()
	}
	return *quotes[rand.Intn(len(quotes))]
}
