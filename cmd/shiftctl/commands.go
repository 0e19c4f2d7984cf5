package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tserv/shift-control/pkg/auth"
	"github.com/tserv/shift-control/pkg/database"
	"github.com/tserv/shift-control/pkg/models"
	"github.com/tserv/shift-control/pkg/scheduler"
	"github.com/tserv/shift-control/pkg/upstream"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// render writes data as YAML, or calls text for the plain format
func render(w io.Writer, data interface{}, text func(io.Writer) error) error {
	switch format := outputFormat(); format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case "text", "":
		return text(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func outputFormat() string {
	return strings.ToLower(v.GetString("output"))
}

func keygenCmd() *cobra.Command {
	var register bool
	var rateLimit int

	cmd := &cobra.Command{
		Use:   "keygen <name>",
		Short: "Issue an HMAC integration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := v.GetString("api_master_secret")
			if secret == "" {
				return errors.New("API_MASTER_SECRET is not set")
			}
			svc := auth.NewService("", secret)
			key := svc.GenerateHMACKey(args[0])

			if register {
				db, err := database.InitDB(v.GetString("database_url"), v.GetString("data_path"), logger)
				if err != nil {
					return err
				}
				rec := database.APIKey{Key: key, Name: args[0], KeyPreview: auth.KeyPreview(key), RateLimit: rateLimit}
				if err := db.Create(&rec).Error; err != nil {
					return fmt.Errorf("failed to register key: %w", err)
				}
			}

			out := struct {
				Name       string `yaml:"name"`
				Key        string `yaml:"key"`
				Registered bool   `yaml:"registered"`
			}{args[0], key, register}
			return render(cmd.OutOrStdout(), out, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Generated Key for %s:\n%s\n", out.Name, out.Key)
				return err
			})
		},
	}
	cmd.Flags().String("secret", "", "Master secret (env API_MASTER_SECRET)")
	cmd.Flags().BoolVar(&register, "register", false, "Store the key in the service database")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", database.DefaultRateLimit, "Daily request limit of a registered key")
	v.BindPFlag("api_master_secret", cmd.Flags().Lookup("secret"))
	return cmd
}

func gridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grid [YYYY-MM]",
		Short: "Print the Monday-first month grid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := now()
			if err != nil {
				return err
			}
			month := scheduler.MonthKey(at.In(scheduler.MSK).Year(), at.In(scheduler.MSK).Month())
			if len(args) == 1 {
				month = args[0]
			}
			year, m, err := scheduler.ParseMonth(month)
			if err != nil {
				return err
			}
			grid := scheduler.BuildMonthGrid(year, m)
			out := struct {
				Month string    `yaml:"month"`
				Weeks [6][7]int `yaml:"weeks"`
			}{scheduler.MonthKey(year, m), grid.Weeks()}
			return render(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return writeGrid(w, out.Month, grid)
			})
		},
	}
}

// writeGrid prints a grid as a calendar page, blanks as empty cells
func writeGrid(w io.Writer, month string, grid scheduler.Grid) error {
	if _, err := fmt.Fprintf(w, "%s\nПн Вт Ср Чт Пт Сб Вс\n", month); err != nil {
		return err
	}
	for _, week := range grid.Weeks() {
		if week == [7]int{} {
			continue
		}
		cells := make([]string, len(week))
		for i, d := range week {
			if d == 0 {
				cells[i] = "  "
			} else {
				cells[i] = fmt.Sprintf("%2d", d)
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " ")); err != nil {
			return err
		}
	}
	return nil
}

// now returns the --at instant when given, otherwise the wall clock
func now() (time.Time, error) {
	at := v.GetString("at")
	if at == "" {
		return scheduler.CurrentInstant(scheduler.SystemClock{}), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: %w", at, err)
	}
	return t, nil
}

// fetchRoster loads the roster and sets aside shifts whose date or times do
// not parse, the way the service does
func fetchRoster(ctx context.Context) ([]models.Shift, map[int]error, error) {
	base := v.GetString("upstream-url")
	if base == "" {
		return nil, nil, errors.New("UPSTREAM_URL is not set")
	}
	client := upstream.NewClient(base, logger)
	roster, err := client.ListShifts(upstream.WithToken(ctx, v.GetString("token")))
	if err != nil {
		return nil, nil, err
	}
	valid, malformed := scheduler.Screen(roster)
	for id, err := range malformed {
		logger.Warn("skipping malformed shift", zap.Int("shift_id", id), zap.Error(err))
	}
	return valid, malformed, nil
}

type shiftLine struct {
	ID     int                `yaml:"id"`
	Label  string             `yaml:"label"`
	Type   models.ShiftType   `yaml:"type"`
	Status models.ShiftStatus `yaml:"status"`
}

func shiftLines(shifts []models.Shift, at time.Time) ([]shiftLine, error) {
	out := make([]shiftLine, 0, len(shifts))
	for _, sh := range shifts {
		status, err := scheduler.StatusAt(sh, at)
		if err != nil {
			return nil, err
		}
		out = append(out, shiftLine{ID: sh.ID, Label: scheduler.ShiftLabel(sh), Type: sh.ShiftType, Status: status})
	}
	return out, nil
}

func writeLines(w io.Writer, lines []shiftLine) error {
	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, "no shifts")
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "#%d  %-5s %-10s %s\n", l.ID, l.Type.Label(), l.Status.Label(), l.Label); err != nil {
			return err
		}
	}
	return nil
}

func dayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "List the shifts covering a day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := now()
			if err != nil {
				return err
			}
			date := scheduler.CivilDate(at)
			if len(args) == 1 {
				date = args[0]
			}
			if _, err := scheduler.ParseDate(date); err != nil {
				return err
			}
			roster, _, err := fetchRoster(cmd.Context())
			if err != nil {
				return err
			}
			shifts, err := scheduler.OnDay(date, roster)
			if err != nil {
				return err
			}
			scheduler.SortDayFirst(shifts)
			lines, err := shiftLines(shifts, at)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), lines, func(w io.Writer) error {
				return writeLines(w, lines)
			})
		},
	}
	return cmd
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <shift-id>",
		Short: "Show the status and successor of a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid shift id %q", args[0])
			}
			roster, malformed, err := fetchRoster(cmd.Context())
			if err != nil {
				return err
			}
			if err, bad := malformed[id]; bad {
				return fmt.Errorf("shift %d is malformed: %w", id, err)
			}
			shift, ok := scheduler.FindByID(roster, id)
			if !ok {
				return fmt.Errorf("shift %d not found", id)
			}
			next, found, err := scheduler.Successor(shift, roster)
			if err != nil {
				return err
			}
			targets := []models.Shift{shift}
			if found {
				targets = append(targets, next)
			}
			at, err := now()
			if err != nil {
				return err
			}
			lines, err := shiftLines(targets, at)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), lines, func(w io.Writer) error {
				if err := writeLines(w, lines[:1]); err != nil {
					return err
				}
				if len(lines) == 1 {
					_, err := fmt.Fprintln(w, "successor: none")
					return err
				}
				fmt.Fprint(w, "successor: ")
				return writeLines(w, lines[1:])
			})
		},
	}
	return cmd
}
