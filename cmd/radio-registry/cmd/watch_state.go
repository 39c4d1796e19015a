package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atcvoice/radio-registry/internal/config"
	"github.com/atcvoice/radio-registry/internal/radio"
	"github.com/atcvoice/radio-registry/internal/storage"
)

var watchStateCmd = &cobra.Command{
	Use:   "watch-state",
	Short: "Print every published registry state as JSON until interrupted (for debugging)",
	Run: func(cmd *cobra.Command, args []string) {
		if err := storage.Setup(config.C); err != nil {
			log.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		stateChan := make(chan radio.State)
		errChan := make(chan error, 1)
		go func() {
			errChan <- storage.SubscribeState(ctx, stateChan)
		}()

		for {
			select {
			case s := <-stateChan:
				b, err := json.Marshal(s)
				if err != nil {
					log.WithError(err).Fatal("json marshal error")
				}
				fmt.Println(string(b))
			case err := <-errChan:
				if err != nil {
					log.WithError(err).Fatal("subscribe registry state error")
				}
				return
			}
		}
	},
}
