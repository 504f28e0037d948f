// Sohayok CLI - the school assistant robot's conversational brain.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sohayok/sohayok/internal/api"
	"github.com/sohayok/sohayok/internal/config"
	"github.com/sohayok/sohayok/internal/core"
	"github.com/sohayok/sohayok/internal/dispatch"
	"github.com/sohayok/sohayok/internal/entertainment"
	"github.com/sohayok/sohayok/internal/handlers"
	"github.com/sohayok/sohayok/internal/intent"
	"github.com/sohayok/sohayok/internal/llm"
	"github.com/sohayok/sohayok/internal/school"
	"github.com/sohayok/sohayok/internal/search"
	"github.com/sohayok/sohayok/internal/storage"
)

var (
	// Global flags
	configFile string
	dataDir    string

	// Version
	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sohayok",
		Short: "Sohayok - a bilingual school assistant robot brain",
		Long: `Sohayok (সহায়ক) is the conversational brain of a school assistant robot.

It understands Bangla and English, classifies what the speaker wants,
checks their role against the school's permission rules, and answers
with jokes, stories, search results, or an LLM-backed reply.

All data stays in a local SQLite database.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: sohayok.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides storage.path)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(peopleCmd())
	rootCmd.AddCommand(schoolCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the wired assistant components.
type app struct {
	cfg        *config.Config
	db         *storage.DB
	people     *storage.PersonStore
	exchanges  *storage.ExchangeStore
	students   *storage.StudentStore
	settings   *storage.SettingsStore
	dispatcher *dispatch.Dispatcher
	school     *school.Service
}

func (a *app) Close() {
	a.db.Close()
}

// buildApp loads the configuration and wires every component. The camera,
// motion base, and face recognizer have no default implementation here, so
// their handlers answer with the localized "can't do that right now" lines.
func buildApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	config.SetupLogging(cfg.Logging)

	dbPath := cfg.Storage.Path
	if dataDir != "" {
		dbPath = filepath.Join(dataDir, "sohayok.db")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := storage.Open(storage.Config{Path: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	people := storage.NewPersonStore(db)
	exchanges := storage.NewExchangeStore(db)
	students := storage.NewStudentStore(db)
	settings := storage.NewSettingsStore(db)

	responder := llm.NewRouter(llm.NewOllamaClient(llm.OllamaConfig{
		BaseURL: cfg.LLM.Host,
		Model:   cfg.LLM.Model,
	}))
	searcher := search.NewClient(search.Config{
		APIKey:   cfg.Search.APIKey,
		EngineID: cfg.Search.EngineID,
	})
	library := entertainment.New(nil)

	registry := handlers.NewRegistry()
	registry.Register(core.IntentGreeting, handlers.NewGreetingHandler())
	registry.Register(core.IntentFaceRecognition, handlers.NewRecognitionHandler(nil))
	registry.Register(core.IntentQuestion, handlers.NewQuestionHandler(responder))
	registry.Register(core.IntentEntertainment, handlers.NewEntertainmentHandler(library))
	registry.Register(core.IntentCameraCapture, handlers.NewCameraHandler(nil))
	registry.Register(core.IntentMovement, handlers.NewMovementHandler(nil))
	registry.Register(core.IntentSearch, handlers.NewSearchHandler(searcher, responder))
	registry.Register(core.IntentUnknown, handlers.NewUnknownHandler())

	classifier := intent.NewClassifier(intent.NewCatalog())
	dispatcher := dispatch.New(classifier, registry, people, exchanges, slog.Default())

	schoolSvc := school.NewService(students, school.Config{
		SchoolName: cfg.School.Name,
		ClassStart: cfg.School.ClassStart,
		ClassEnd:   cfg.School.ClassEnd,
	}, slog.Default())

	return &app{
		cfg:        cfg,
		db:         db,
		people:     people,
		exchanges:  exchanges,
		students:   students,
		settings:   settings,
		dispatcher: dispatcher,
		school:     schoolSvc,
	}, nil
}

// serveCmd runs the HTTP API server until interrupted.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			server := api.New(api.Config{
				Host:            a.cfg.Server.Host,
				Port:            a.cfg.Server.Port,
				Dispatcher:      a.dispatcher,
				School:          a.school,
				PersonStore:     a.people,
				ExchangeStore:   a.exchanges,
				SettingsStore:   a.settings,
				DefaultLanguage: core.Language(a.cfg.Assistant.DefaultLanguage),
			})

			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
				<-sigCh

				fmt.Println("\nShutting down...")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				server.Stop(ctx)
			}()

			fmt.Printf("🤖 Sohayok listening on http://%s:%d\n", a.cfg.Server.Host, a.cfg.Server.Port)
			return server.Start()
		},
	}
}

// chatCmd is a stdin REPL over the dispatcher.
func chatCmd() *cobra.Command {
	var caller, lang string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			language, err := resolveLanguage(a.cfg, lang)
			if err != nil {
				return err
			}

			fmt.Println("🤖 Sohayok is listening. Type 'exit' to quit.")
			if caller != "" {
				fmt.Printf("   Speaking as: %s\n", caller)
			}
			fmt.Println()

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if text == "exit" || text == "quit" {
					break
				}

				response := a.dispatcher.Process(cmd.Context(), text, language, caller)
				fmt.Printf("🤖 %s\n\n", response)
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "speaker name (looked up for role and greeting)")
	cmd.Flags().StringVar(&lang, "lang", "", "input language: bn or en (default from config)")
	return cmd
}

// askCmd sends a single utterance and prints the response.
func askCmd() *cobra.Command {
	var caller, lang string
	cmd := &cobra.Command{
		Use:   "ask [text]",
		Short: "Ask the assistant one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			language, err := resolveLanguage(a.cfg, lang)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			fmt.Println(a.dispatcher.Process(cmd.Context(), text, language, caller))
			return nil
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "speaker name")
	cmd.Flags().StringVar(&lang, "lang", "", "input language: bn or en (default from config)")
	return cmd
}

// peopleCmd manages known people.
func peopleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Manage known people",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List known people",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			people, err := a.people.List()
			if err != nil {
				return err
			}
			if len(people) == 0 {
				fmt.Println("No one registered yet. Use 'sohayok people add'.")
				return nil
			}

			fmt.Printf("%-20s %-10s %-5s %-6s %s\n", "NAME", "ROLE", "LANG", "VISITS", "LAST SEEN")
			for _, p := range people {
				fmt.Printf("%-20s %-10s %-5s %-6d %s\n",
					p.Name, p.Role, p.Language, p.InteractionCount,
					p.LastSeen.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	var role, lang string
	addCmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Register a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			r := core.Role(role)
			switch r {
			case core.RoleStudent, core.RoleTeacher, core.RolePrincipal, core.RoleAdmin, core.RoleFriend:
			default:
				return fmt.Errorf("unknown role %q (student, teacher, principal, admin, friend)", role)
			}
			language := core.Language(lang)
			if !language.Valid() {
				return fmt.Errorf("unknown language %q (bn or en)", lang)
			}

			p := &core.Person{Name: args[0], Role: r, Language: language}
			if err := a.people.Create(p); err != nil {
				return err
			}
			fmt.Printf("✅ Registered %s as %s.\n", p.Name, p.Role)
			return nil
		},
	}
	addCmd.Flags().StringVar(&role, "role", string(core.RoleFriend), "role: student, teacher, principal, admin, friend")
	addCmd.Flags().StringVar(&lang, "lang", string(core.LangBangla), "preferred language: bn or en")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(addCmd)
	return cmd
}

// schoolCmd reports on school state.
func schoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "school",
		Short: "School reports and status",
	}

	var caller, date, class string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print an attendance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if date == "" {
				date = time.Now().Format("2006-01-02")
			}

			rep, err := a.school.AttendanceReport(callerRole(a, caller), date, class)
			if err != nil {
				return err
			}

			fmt.Printf("📋 Attendance for %s", rep.Date)
			if rep.ClassName != "" {
				fmt.Printf(" (class %s)", rep.ClassName)
			}
			fmt.Println()
			fmt.Printf("   Marked: %d of %d students\n", rep.Present+rep.Absent+rep.Late, rep.TotalStudents)
			fmt.Printf("   Present: %d  Absent: %d  Late: %d\n", rep.Present, rep.Absent, rep.Late)
			fmt.Printf("   Rate: %.0f%%\n", rep.AttendanceRate*100)
			return nil
		},
	}
	reportCmd.Flags().StringVar(&caller, "caller", "", "who is asking (role is checked)")
	reportCmd.Flags().StringVar(&date, "date", "", "report date, YYYY-MM-DD (default: today)")
	reportCmd.Flags().StringVar(&class, "class", "", "limit to one class")

	schoolStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether school is in session and today's tally",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.school.SchoolStatus()
			if err != nil {
				return err
			}

			session := "not in session"
			if st.InSession {
				session = "in session"
			}
			fmt.Printf("🏫 %s\n", st.SchoolName)
			fmt.Printf("   %s (%s)\n", session, st.CurrentTime.Format("15:04"))
			fmt.Printf("   Students: %d registered\n", st.TotalStudents)
			fmt.Printf("   Today: %d present, %d absent, %d late\n",
				st.TodayAttendance.Present, st.TodayAttendance.Absent, st.TodayAttendance.Late)
			return nil
		},
	}

	cmd.AddCommand(reportCmd)
	cmd.AddCommand(schoolStatusCmd)
	return cmd
}

// statusCmd shows database counts.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show assistant status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			peopleCount, _ := a.people.Count()
			studentCount, _ := a.students.Count()
			exchangeCount, _ := a.exchanges.Count()
			outcomes, _ := a.exchanges.CountByOutcome()

			fmt.Println("📊 Sohayok Status")
			fmt.Println()
			fmt.Printf("   School: %s\n", a.cfg.School.Name)
			fmt.Printf("   People known: %d\n", peopleCount)
			fmt.Printf("   Students: %d\n", studentCount)
			fmt.Printf("   Exchanges: %d\n", exchangeCount)
			if len(outcomes) > 0 {
				fmt.Println("   By outcome:")
				for _, o := range []core.Outcome{
					core.OutcomeOK, core.OutcomeWeakMatch, core.OutcomeNoMatch,
					core.OutcomePermissionDenied, core.OutcomeHandlerFailure,
				} {
					if n := outcomes[o]; n > 0 {
						fmt.Printf("      %-18s %d\n", o, n)
					}
				}
			}
			return nil
		},
	}
}

// versionCmd shows version.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show sohayok version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sohayok %s\n", version)
			fmt.Println("A bilingual school assistant robot brain")
		},
	}
}

// callerRole resolves a name to their stored role; unknown callers act as friends.
func callerRole(a *app, caller string) core.Role {
	if caller == "" {
		return core.RoleFriend
	}
	p, err := a.people.GetByName(caller)
	if err != nil || p == nil {
		return core.RoleFriend
	}
	return p.Role
}

func resolveLanguage(cfg *config.Config, flag string) (core.Language, error) {
	if flag == "" {
		flag = cfg.Assistant.DefaultLanguage
	}
	lang := core.Language(flag)
	if !lang.Valid() {
		return "", fmt.Errorf("%w: %q (bn or en)", core.ErrUnknownLanguage, flag)
	}
	return lang, nil
}
