package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atcvoice/radio-registry/internal/config"
	"github.com/atcvoice/radio-registry/internal/storage"
)

var printStateCmd = &cobra.Command{
	Use:     "print-state",
	Short:   "Print the last published registry state as JSON (for debugging)",
	Example: `radio-registry print-state --config radio-registry.toml`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := storage.Setup(config.C); err != nil {
			log.Fatal(err)
		}

		s, err := storage.GetState(context.Background())
		if err != nil {
			log.WithError(err).Fatal("get registry state error")
		}

		b, err := json.MarshalIndent(s, "", "    ")
		if err != nil {
			log.WithError(err).Fatal("json marshal error")
		}

		fmt.Println(string(b))
	},
}
