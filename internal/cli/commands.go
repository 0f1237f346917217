package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/carpool/internal/domain"
)

func (a *App) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Ver caronas disponíveis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			offers, err := a.rides.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "🚗 Caronas para %s\n📅 %s\n\n", a.event.Destination, a.event.Date)
			if len(offers) == 0 {
				fmt.Fprintln(out, msgNoRides)
				return nil
			}
			for i, o := range offers {
				writeCard(out, i, o)
			}
			return nil
		},
	}
}

func writeCard(w io.Writer, index int, o domain.RideOffer) {
	passengers := "Nenhum ainda"
	if len(o.Passengers) > 0 {
		passengers = strings.Join(o.Passengers, ", ")
	}
	fmt.Fprintf(w, "Carona #%d\n", index+1)
	fmt.Fprintf(w, "  🧍 Motorista: %s\n", o.DriverName)
	fmt.Fprintf(w, "  🕒 Horário: %s\n", o.DepartureTime)
	fmt.Fprintf(w, "  📍 Origem: %s\n", o.Origin)
	fmt.Fprintf(w, "  🚘 Vagas: %d/%d\n", o.AvailableSeats(), o.TotalSeats)
	fmt.Fprintf(w, "  👥 Ocupantes: %s\n\n", passengers)
}

func (a *App) joinCommand() *cobra.Command {
	var (
		choice int
		rawID  string
	)
	cmd := &cobra.Command{
		Use:   "join [NOME]",
		Short: "Entrar em uma carona",
		Long: "Sem --ride ou --id, lista as caronas com vagas.\n" +
			"Com --ride N, entra na N-ésima carona da lista.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			var id uuid.UUID
			switch {
			case rawID != "":
				parsed, err := uuid.Parse(rawID)
				if err != nil {
					return fmt.Errorf("%w: id %q inválido", errInvalidChoice, rawID)
				}
				id = parsed
			default:
				opts, err := a.rides.JoinOptions(ctx)
				if err != nil {
					return err
				}
				if choice == 0 {
					return a.printJoinOptions(cmd, opts)
				}
				if id, err = pick(opts, choice); err != nil {
					return err
				}
			}

			if _, err := a.rides.JoinOffer(ctx, id, name); err != nil {
				return err
			}
			fmt.Fprintln(out, msgJoined)
			return nil
		},
	}
	cmd.Flags().IntVar(&choice, "ride", 0, "número da carona na lista (1, 2, ...)")
	cmd.Flags().StringVar(&rawID, "id", "", "id da carona")
	cmd.MarkFlagsMutuallyExclusive("ride", "id")
	return cmd
}

func (a *App) printJoinOptions(cmd *cobra.Command, opts []domain.RideOption) error {
	out := cmd.OutOrStdout()
	if len(opts) > 0 {
		fmt.Fprintln(out, "Escolha uma carona disponível (--ride N):")
		printOptions(out, opts)
		return nil
	}
	offers, err := a.rides.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(offers) == 0 {
		fmt.Fprintln(out, msgNoneJoinable)
	} else {
		fmt.Fprintln(out, msgAllFull)
	}
	return nil
}

func (a *App) offerCommand() *cobra.Command {
	var (
		driver, departure, origin string
		seats                     int
	)
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Oferecer carona",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			offer, err := a.rides.CreateOffer(cmd.Context(), driver, departure, origin, seats)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, msgOffered)
			fmt.Fprintf(out, "id: %s\n", offer.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "seu nome (motorista)")
	cmd.Flags().StringVar(&departure, "time", "", "horário de saída (HH:MM)")
	cmd.Flags().StringVar(&origin, "origin", "", "de onde você sairá")
	cmd.Flags().IntVar(&seats, "seats", domain.MinSeats, fmt.Sprintf("vagas oferecidas (%d a %d)", domain.MinSeats, domain.MaxSeats))
	return cmd
}

func (a *App) deleteCommand() *cobra.Command {
	var (
		driver string
		choice int
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Excluir minha carona",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if strings.TrimSpace(driver) == "" {
				return domain.ErrNameMissing
			}

			opts, err := a.rides.DriverOffers(ctx, driver)
			if err != nil {
				return err
			}
			if len(opts) == 0 {
				fmt.Fprintln(out, msgNoDriverRides)
				return nil
			}
			if choice == 0 {
				fmt.Fprintln(out, "Selecione a carona para excluir (--ride N):")
				printOptions(out, opts)
				return nil
			}

			id, err := pick(opts, choice)
			if err != nil {
				return err
			}
			if _, err := a.rides.DeleteOffer(ctx, id, driver); err != nil {
				return err
			}
			fmt.Fprintln(out, msgDeleted)
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "seu nome (motorista)")
	cmd.Flags().IntVar(&choice, "ride", 0, "número da carona na lista (1, 2, ...)")
	return cmd
}

func (a *App) exportCommand() *cobra.Command {
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exportar caronas e ocupantes (JSON ou CSV)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := a.export.Export(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asCSV {
				cw := csv.NewWriter(out)
				if err := cw.Write(domain.ExportColumns); err != nil {
					return err
				}
				for _, r := range rows {
					if err := cw.Write(r.CSVRecord()); err != nil {
						return err
					}
				}
				cw.Flush()
				return cw.Error()
			}
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "exportar como CSV")
	return cmd
}
