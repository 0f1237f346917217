// Package cli implements the carpool command-line shell on top of the ride
// service. Output and messages are in Portuguese, for the people using it.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/carpool/internal/domain"
)

// Rides is the subset of the ride service the commands use.
type Rides interface {
	List(ctx context.Context) ([]domain.RideOffer, error)
	CreateOffer(ctx context.Context, driverName, departureTime, origin string, totalSeats int) (domain.RideOffer, error)
	JoinOffer(ctx context.Context, id uuid.UUID, passengerName string) (domain.RideOffer, error)
	DeleteOffer(ctx context.Context, id uuid.UUID, driverName string) (domain.RideOffer, error)
	JoinOptions(ctx context.Context) ([]domain.RideOption, error)
	DriverOffers(ctx context.Context, driverName string) ([]domain.RideOption, error)
}

// Exporter produces the flat export rows.
type Exporter interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// App holds what every command needs.
type App struct {
	rides  Rides
	export Exporter
	event  domain.EventInfo
}

// NewApp wires the commands to their services.
func NewApp(rides Rides, export Exporter, event domain.EventInfo) *App {
	return &App{rides: rides, export: export, event: event}
}

// User-facing messages.
const (
	msgJoined        = "✅ Você entrou na carona com sucesso!"
	msgAlreadyJoined = "⚠️ Você já está nesta carona."
	msgNameMissing   = "❌ Por favor, insira seu nome."
	msgOffered       = "✅ Carona cadastrada com sucesso!"
	msgFieldsMissing = "❌ Por favor, preencha todos os campos obrigatórios."
	msgDeleted       = "✅ Carona excluída com sucesso!"
	msgRideFull      = "❌ Esta carona está completa."
	msgNotFound      = "❌ Carona não encontrada."
	msgNotOwner      = "❌ Esta carona pertence a outro motorista."
	msgNoRides       = "Ainda não há caronas cadastradas."
	msgNoneJoinable  = "Ainda não há caronas disponíveis."
	msgAllFull       = "Todas as caronas estão completas."
	msgNoDriverRides = "Você não possui caronas cadastradas."
)

// errInvalidChoice is returned when --ride does not match a listed option.
var errInvalidChoice = errors.New("invalid choice")

// Run executes the command line args against app and returns the process
// exit code. Errors are printed to stderr as a single user-facing line.
func Run(ctx context.Context, app *App, args []string, stdout, stderr io.Writer) int {
	root := app.RootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, Message(err))
		return 1
	}
	return 0
}

// Message maps a command error to the line shown to the user.
func Message(err error) string {
	switch {
	case errors.Is(err, domain.ErrNameMissing):
		return msgNameMissing
	case errors.Is(err, domain.ErrFieldsMissing):
		return msgFieldsMissing
	case errors.Is(err, domain.ErrAlreadyJoined):
		return msgAlreadyJoined
	case errors.Is(err, domain.ErrRideFull):
		return msgRideFull
	case errors.Is(err, domain.ErrNotFound):
		return msgNotFound
	case errors.Is(err, domain.ErrNotOwner):
		return msgNotOwner
	case errors.Is(err, domain.ErrValidation):
		return "❌ " + after(err.Error(), domain.ErrValidationText+": ")
	case errors.Is(err, errInvalidChoice):
		return "❌ " + after(err.Error(), errInvalidChoice.Error()+": ")
	default:
		return "❌ Erro: " + err.Error()
	}
}

// after returns the part of msg following marker, or msg when absent.
func after(msg, marker string) string {
	if _, rest, ok := strings.Cut(msg, marker); ok {
		return rest
	}
	return msg
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "carpool",
		Short: fmt.Sprintf("Caronas para %s (%s)", a.event.Destination, a.event.Date),
		// Run reports errors in the user's language.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(
		a.listCommand(),
		a.joinCommand(),
		a.offerCommand(),
		a.deleteCommand(),
		a.exportCommand(),
	)
	return root
}

// pick resolves a 1-based --ride choice against the options that were listed.
func pick(opts []domain.RideOption, n int) (uuid.UUID, error) {
	if n < 1 || n > len(opts) {
		return uuid.Nil, fmt.Errorf("%w: opção %d não existe (escolha de 1 a %d)", errInvalidChoice, n, len(opts))
	}
	return opts[n-1].RideID, nil
}

func printOptions(w io.Writer, opts []domain.RideOption) {
	for i, o := range opts {
		fmt.Fprintf(w, "%d) %s\n", i+1, o.Label)
	}
}
