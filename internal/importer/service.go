package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/client"
	"github.com/rgoodall/duebook/internal/importer/chexport"
)

// ClientStore is the slice of the client service the import flow needs.
//
//go:generate mockgen -source=service.go -destination=clientstore_mock.go -package=importer
type ClientStore interface {
	GetByCompanyNumber(ctx context.Context, number string) (*client.Client, error)
	Create(ctx context.Context, c *client.Client) error
}

// Duplicate is a parsed row whose company number already exists.
type Duplicate struct {
	Record     client.Client `json:"record"`
	ExistingID uuid.UUID     `json:"existing_id"`
}

// Preview is the result of parsing an upload without committing anything:
// rows that would be created, and rows that collide with existing clients.
type Preview struct {
	New        []client.Client `json:"new"`
	Duplicates []Duplicate     `json:"duplicates"`
}

type Service struct {
	parser  Parser
	clients ClientStore
}

func NewService(clients ClientStore) *Service {
	return &Service{
		parser:  chexport.NewParser(),
		clients: clients,
	}
}

// Preview parses the upload and splits rows into new and duplicate, keyed by
// registered company number. Rows without a company number (sole traders,
// partnerships) cannot collide and always come back as new.
func (s *Service) Preview(ctx context.Context, r io.Reader) (*Preview, error) {
	records, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing client list: %w", err)
	}

	preview := &Preview{}

	for _, rec := range records {
		if rec.CompanyNumber == nil {
			preview.New = append(preview.New, rec)
			continue
		}

		existing, err := s.clients.GetByCompanyNumber(ctx, *rec.CompanyNumber)
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				preview.New = append(preview.New, rec)
				continue
			}

			return nil, fmt.Errorf("checking company number %s: %w", *rec.CompanyNumber, err)
		}

		preview.Duplicates = append(preview.Duplicates, Duplicate{Record: rec, ExistingID: existing.ID})
	}

	return preview, nil
}

// Confirm creates the given records, re-checking company numbers so a row
// imported twice between preview and confirm is skipped rather than
// duplicated.
func (s *Service) Confirm(ctx context.Context, records []client.Client) ([]*client.Client, error) {
	var created []*client.Client

	for i := range records {
		rec := records[i]

		if rec.CompanyNumber != nil {
			_, err := s.clients.GetByCompanyNumber(ctx, *rec.CompanyNumber)
			if err == nil {
				continue
			}

			if !errors.Is(err, client.ErrNotFound) {
				return nil, fmt.Errorf("checking company number %s: %w", *rec.CompanyNumber, err)
			}
		}

		if err := s.clients.Create(ctx, &rec); err != nil {
			return nil, fmt.Errorf("creating imported client %q: %w", rec.Name, err)
		}

		created = append(created, &rec)
	}

	return created, nil
}
