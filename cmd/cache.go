package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spigell/ats-screener/internal/evaluation"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show the configured evaluation cache settings",
	Long: "Prints the evaluation cache configuration as JSON. The cache lives in\n" +
		"process memory for the duration of a single run, so there is no persistent\n" +
		"state to inspect or clear between invocations.",
	Run: func(_ *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %v", err)
		}

		cache := evaluation.NewCache(config.Cache.Enabled, config.Cache.TTL())

		pretty, err := json.MarshalIndent(cache.Status(), "", "  ")
		if err != nil {
			log.Fatalf("rendering cache status: %v", err)
		}

		fmt.Println(string(pretty))
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}
