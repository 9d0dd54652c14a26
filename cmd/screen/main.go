// Command screen runs the resume screening pipeline from the terminal and
// issues recruiter tokens for the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"prohire/resume-screener/internal/config"
)

// settings collects flag overrides; config.LoadFrom reads it after the
// environment so flags win over env vars and .env values.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "screen",
	Short: "Resume screening pipeline CLI",
	Long:  "Screen local resume files against a job description with the same pipeline the HTTP API uses.",
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	flags.String("model", "", "Gemini model name (overrides GEMINI_MODEL)")
	flags.Bool("log-json", false, "Emit JSON logs")
	flags.Bool("debug", false, "Enable debug logging")

	mustBind(settings.BindPFlag("GEMINI_API_KEY", flags.Lookup("api-key")))
	mustBind(settings.BindPFlag("GEMINI_MODEL", flags.Lookup("model")))
	mustBind(settings.BindPFlag("LOG_JSON", flags.Lookup("log-json")))
	mustBind(settings.BindPFlag("LOG_DEBUG", flags.Lookup("debug")))
}

// mustBind panics on a flag binding error, which only happens for a nil flag.
func mustBind(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	return config.LoadFrom(settings)
}
