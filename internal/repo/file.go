package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/carpool/internal/domain"
)

// fileStore keeps the registry in a single JSON file holding an array of
// ride offers, pretty-printed with four-space indentation.
// mu serialises reads against the id backfill and concurrent saves.
type fileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore constructs a RideStore backed by the JSON file at path.
// The file is created on the first Save; it does not need to exist.
func NewFileStore(path string) RideStore {
	return &fileStore{path: path}
}

// Load reads and decodes the whole file.
// Every record is checked before anything is written back: a null entry,
// blank names, a bad time, seats outside 1-4, more passengers than seats or a
// repeated passenger make the whole file ErrCorruptStore and leave it as is.
// Records written before offers carried an id are given one, and the file
// is rewritten once so those ids stay stable across loads.
func (s *fileStore) Load(ctx context.Context) ([]domain.RideOffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.RideOffer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repo.fileStore.Load: %w", err)
	}

	var records []*domain.RideOffer
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("repo.fileStore.Load: %s: %w: %w", s.path, ErrCorruptStore, err)
	}

	offers := make([]domain.RideOffer, 0, len(records))
	seen := make(map[uuid.UUID]bool, len(records))
	upgraded := false
	for i, rec := range records {
		o, err := checkRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("repo.fileStore.Load: %s: %w: record %d: %s", s.path, ErrCorruptStore, i, err)
		}
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
			upgraded = true
		}
		if seen[o.ID] {
			return nil, fmt.Errorf("repo.fileStore.Load: %s: %w: record %d: duplicate id %s", s.path, ErrCorruptStore, i, o.ID)
		}
		seen[o.ID] = true
		offers = append(offers, o)
	}

	if upgraded {
		if err := s.write(offers); err != nil {
			return nil, fmt.Errorf("repo.fileStore.Load: assign ids: %w", err)
		}
	}
	return offers, nil
}

// checkRecord normalises one decoded record and rejects anything that breaks
// the ride invariants. Text fields are trimmed and the departure time is
// rewritten as HH:MM.
func checkRecord(rec *domain.RideOffer) (domain.RideOffer, error) {
	if rec == nil {
		return domain.RideOffer{}, errors.New("null ride")
	}
	o := rec.Clone()
	o.DriverName = strings.TrimSpace(o.DriverName)
	o.Origin = strings.TrimSpace(o.Origin)
	if o.DriverName == "" || o.Origin == "" {
		return domain.RideOffer{}, errors.New("motorista and origem are required")
	}
	hhmm, ok := domain.NormalizeDepartureTime(o.DepartureTime)
	if !ok {
		return domain.RideOffer{}, fmt.Errorf("hora_saida %q is not HH:MM", o.DepartureTime)
	}
	o.DepartureTime = hhmm
	if o.TotalSeats < domain.MinSeats || o.TotalSeats > domain.MaxSeats {
		return domain.RideOffer{}, fmt.Errorf("vagas %d outside %d-%d", o.TotalSeats, domain.MinSeats, domain.MaxSeats)
	}
	if len(o.Passengers) > o.TotalSeats {
		return domain.RideOffer{}, fmt.Errorf("%d ocupantes for %d vagas", len(o.Passengers), o.TotalSeats)
	}
	seen := make(map[string]bool, len(o.Passengers))
	for j, p := range o.Passengers {
		p = strings.TrimSpace(p)
		if p == "" {
			return domain.RideOffer{}, errors.New("blank passenger name")
		}
		if seen[p] {
			return domain.RideOffer{}, fmt.Errorf("passenger %q listed twice", p)
		}
		seen[p] = true
		o.Passengers[j] = p
	}
	return o, nil
}

// Save overwrites the file with the full registry.
// The data is written to a sibling temp file and renamed into place, so a
// crash mid-write leaves the previous version intact.
func (s *fileStore) Save(ctx context.Context, offers []domain.RideOffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(offers)
}

// write encodes offers and replaces the file. Callers hold mu.
func (s *fileStore) write(offers []domain.RideOffer) error {
	if offers == nil {
		offers = []domain.RideOffer{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(offers); err != nil {
		return fmt.Errorf("repo.fileStore.write: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("repo.fileStore.write: %w", err)
	}
	// Remove is a no-op after a successful rename.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.fileStore.write: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.fileStore.write: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repo.fileStore.write: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("repo.fileStore.write: rename: %w", err)
	}
	return nil
}
