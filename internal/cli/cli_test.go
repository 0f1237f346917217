package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carpool/internal/cli"
	"github.com/pkordes/carpool/internal/domain"
	"github.com/pkordes/carpool/internal/repo"
	"github.com/pkordes/carpool/internal/service"
)

var event = domain.EventInfo{Destination: domain.DefaultEventDestination, Date: domain.DefaultEventDate}

// harness runs commands against a real service over a file store in a temp dir.
type harness struct {
	t     *testing.T
	store repo.RideStore
	app   *cli.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := repo.NewFileStore(filepath.Join(t.TempDir(), "caronas.json"))
	app := cli.NewApp(service.NewRideService(store, nil), service.NewExportService(store), event)
	return &harness{t: t, store: store, app: app}
}

// run executes args and returns exit code, stdout and stderr.
func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	code := cli.Run(context.Background(), h.app, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (h *harness) offers() []domain.RideOffer {
	h.t.Helper()
	offers, err := h.store.Load(context.Background())
	require.NoError(h.t, err)
	return offers
}

func TestList_empty(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("list")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Campos do Jordão - SP")
	assert.Contains(t, out, "30/05/2025")
	assert.Contains(t, out, "Ainda não há caronas cadastradas.")
}

func TestOffer_thenList(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro", "--seats", "3")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "✅ Carona cadastrada com sucesso!")

	code, out, _ = h.run("list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Carona #1")
	assert.Contains(t, out, "Motorista: Ana")
	assert.Contains(t, out, "Horário: 08:00")
	assert.Contains(t, out, "Origem: Centro")
	assert.Contains(t, out, "Vagas: 3/3")
	assert.Contains(t, out, "Ocupantes: Nenhum ainda")
}

func TestOffer_missingFields(t *testing.T) {
	h := newHarness(t)

	code, out, errOut := h.run("offer", "--time", "08:00", "--origin", "Centro")

	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, "❌ Por favor, preencha todos os campos obrigatórios.\n", errOut)
	assert.Empty(t, h.offers())
}

func TestOffer_invalidSeats(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro", "--seats", "5")

	assert.Equal(t, 1, code)
	assert.Equal(t, "❌ seats must be between 1 and 4\n", errOut)
	assert.Empty(t, h.offers())
}

func TestJoin_listsOptionsWithoutChoice(t *testing.T) {
	h := newHarness(t)
	h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro", "--seats", "3")
	h.run("offer", "--driver", "Caio", "--time", "09:30", "--origin", "Moema", "--seats", "1")

	code, out, _ := h.run("join", "Bia")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "1) Ana - 08:00 - Centro (3 vagas)")
	assert.Contains(t, out, "2) Caio - 09:30 - Moema (1 vagas)")
	for _, o := range h.offers() {
		assert.Empty(t, o.Passengers, "listing options must not join")
	}
}

func TestJoin_byNumber(t *testing.T) {
	h := newHarness(t)
	h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro", "--seats", "1")

	code, out, _ := h.run("join", "Bia", "--ride", "1")

	require.Equal(t, 0, code)
	assert.Contains(t, out, "✅ Você entrou na carona com sucesso!")
	offers := h.offers()
	require.Len(t, offers, 1)
	assert.Equal(t, []string{"Bia"}, offers[0].Passengers)

	// The only ride is now full.
	code, out, _ = h.run("join", "Caio")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Todas as caronas estão completas.")
}

func TestJoin_byID(t *testing.T) {
	h := newHarness(t)
	h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro", "--seats", "2")
	id := h.offers()[0].ID

	code, _, _ := h.run("join", "Bia", "--id", id.String())

	require.Equal(t, 0, code)
	assert.Equal(t, []string{"Bia"}, h.offers()[0].Passengers)
}

func TestJoin_errors(t *testing.T) {
	h := newHarness(t)
	h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro", "--seats", "2")
	h.run("join", "Bia", "--ride", "1")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate", []string{"join", "Bia", "--ride", "1"}, "⚠️ Você já está nesta carona."},
		{"no name", []string{"join", "--ride", "1"}, "❌ Por favor, insira seu nome."},
		{"out of range", []string{"join", "Caio", "--ride", "7"}, "opção 7 não existe"},
		{"bad id", []string{"join", "Caio", "--id", "abc"}, "inválido"},
		{"unknown id", []string{"join", "Caio", "--id", "00000000-0000-0000-0000-000000000001"}, "❌ Carona não encontrada."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := h.run(tc.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tc.want)
		})
	}
	assert.Equal(t, []string{"Bia"}, h.offers()[0].Passengers)
}

func TestJoin_noRides(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("join", "Bia")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Ainda não há caronas disponíveis.")
}

// TestDelete_secondOfTwo verifies that deleting by number removes exactly
// the chosen ride and keeps the other one intact.
func TestDelete_secondOfTwo(t *testing.T) {
	h := newHarness(t)
	h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro", "--seats", "3")
	h.run("offer", "--driver", "Ana", "--time", "10:00", "--origin", "Lapa", "--seats", "2")
	first := h.offers()[0]

	code, out, _ := h.run("delete", "--driver", "Ana")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "1) 08:00 - Centro (0/3 ocupantes)")
	assert.Contains(t, out, "2) 10:00 - Lapa (0/2 ocupantes)")

	code, out, _ = h.run("delete", "--driver", "Ana", "--ride", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "✅ Carona excluída com sucesso!")

	offers := h.offers()
	require.Len(t, offers, 1)
	assert.Equal(t, first, offers[0])
}

func TestDelete_noRidesForDriver(t *testing.T) {
	h := newHarness(t)
	h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro", "--seats", "3")

	code, out, _ := h.run("delete", "--driver", "Bia")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Você não possui caronas cadastradas.")
	assert.Len(t, h.offers(), 1)
}

func TestDelete_missingDriver(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("delete")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "❌ Por favor, insira seu nome.")
}

func TestExport_jsonAndCSV(t *testing.T) {
	h := newHarness(t)
	h.run("offer", "--driver", "Ana", "--time", "08:00", "--origin", "Centro, SP", "--seats", "3")
	h.run("join", "Bia", "--ride", "1")
	id := h.offers()[0].ID.String()

	code, out, _ := h.run("export")
	require.Equal(t, 0, code)
	var rows []domain.ExportRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Bia", rows[0].Passenger)
	assert.Equal(t, 1, rows[0].Position)

	code, out, _ = h.run("export", "--csv")
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ride_id,driver_name,departure_time,origin,total_seats,available_seats,passenger,position", lines[0])
	assert.Equal(t, id+`,Ana,08:00,"Centro, SP",3,2,Bia,1`, lines[1])
}

func TestRun_unknownFlag(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("list", "--bogus")

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "bogus")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "❌ Esta carona está completa.", cli.Message(domain.ErrRideFull))
	assert.Equal(t, "❌ Esta carona pertence a outro motorista.", cli.Message(domain.ErrNotOwner))
	assert.Equal(t, "❌ Erro: disk full", cli.Message(errors.New("disk full")))
}

func TestMessage_stripsWrapping(t *testing.T) {
	err := fmt.Errorf("service.RideService.CreateOffer: %w", fmt.Errorf("%w: seats must be between 1 and 4", domain.ErrValidation))

	assert.Equal(t, "❌ seats must be between 1 and 4", cli.Message(err))
}
