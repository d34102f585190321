package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ineyio/askimage"
	"github.com/ineyio/askimage/meter"
	"github.com/ineyio/askimage/provider/openaicompat"
	"github.com/ineyio/askimage/session"
)

var (
	version = "dev"

	configPath string
	imagePath  string
	modelFlag  string
	baseURL    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "askimage",
	Short: "Chat about an image from the terminal, within provider rate limits",
	Long: `askimage uploads a PNG or JPEG image and lets you ask questions about it
against an OpenAI-compatible vision model (Groq by default). Every question
passes through a usage governor that enforces the provider's per-minute and
per-day request and token limits before the call is attempted.

Questions are read from stdin, one per line. Type "reset" to reinitialize
the usage counters, or an empty line / EOF to quit.`,
	Version: version,
	RunE:    runChat,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().StringVarP(&imagePath, "image", "i", "", "Path to the image to chat about (png or jpg)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model override")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible base URL override")
	_ = rootCmd.MarkFlagRequired("image")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg := askimage.DefaultConfig()
	if configPath != "" {
		loaded, err := askimage.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if modelFlag != "" {
		cfg.Provider.Model = modelFlag
	}
	if baseURL != "" {
		cfg.Provider.BaseURL = baseURL
	}
	if cfg.Provider.Auth.APIKey == "" {
		cfg.Provider.Auth.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.Provider.Auth.APIKey == "" {
		return fmt.Errorf("no API key: set provider.auth.api_key in the config or GROQ_API_KEY")
	}

	att, err := session.LoadAttachment(imagePath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	gov := askimage.NewGovernor(cfg.Limits)
	prov := openaicompat.New("groq", cfg.Provider.BaseURL)
	sess := session.New(gov, prov,
		session.WithAuth(cfg.Provider.Auth),
		session.WithModel(cfg.Provider.Model),
		session.WithMeter(meter.NewLogMeter(logger)),
	)
	sess.Attach(att)

	fmt.Printf("image %s (%s, %d bytes) attached, ask away\n", att.Name, att.MIME, att.Size())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}
		if question == "reset" {
			gov.Reset()
			fmt.Println("usage counters reset")
			continue
		}

		ex, err := sess.Ask(cmd.Context(), question)
		if askimage.IsLimit(err) {
			r := gov.Report()
			fmt.Printf("rejected: %s (minute window resets in %ds)\n",
				askimage.Reason(err), r.SecondsToMinuteReset)
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}

		if err := session.Typewriter(os.Stdout, ex.Answer, cfg.TypingDelay()); err != nil {
			return err
		}
		fmt.Println()
		printDashboard(gov.Report())
	}
	return scanner.Err()
}

func printDashboard(r askimage.Report) {
	fmt.Printf("usage: %d req (%.0f%% min, %.0f%% day) | %d tok this minute (%.0f%%) | %d tok today (%.0f%%) | reset in %ds\n",
		r.MinuteRequests, r.MinuteRequestsPct, r.DailyRequestsPct,
		r.MinuteTokens, r.MinuteTokensPct,
		r.DailyTokens, r.DailyTokensPct,
		r.SecondsToMinuteReset)
}
