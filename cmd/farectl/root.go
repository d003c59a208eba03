package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yanqian/flight-fare/internal/domain/fare"
	"github.com/yanqian/flight-fare/internal/infra/model/source"
	"github.com/yanqian/flight-fare/internal/infra/predictionlog"
)

type itineraryFlags struct {
	departure   string
	arrival     string
	stops       int
	airline     string
	origin      string
	destination string
}

func (f *itineraryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.departure, "departure", "", "departure time, YYYY-MM-DD HH:MM")
	cmd.Flags().StringVar(&f.arrival, "arrival", "", "arrival time, YYYY-MM-DD HH:MM")
	cmd.Flags().IntVar(&f.stops, "stops", 0, "total stops")
	cmd.Flags().StringVar(&f.airline, "airline", "", "airline name")
	cmd.Flags().StringVar(&f.origin, "origin", "", "source city")
	cmd.Flags().StringVar(&f.destination, "destination", "", "destination city")
	_ = cmd.MarkFlagRequired("departure")
	_ = cmd.MarkFlagRequired("arrival")
}

func (f *itineraryFlags) request() fare.QuoteRequest {
	return fare.QuoteRequest{
		DepartureTime: f.departure,
		ArrivalTime:   f.arrival,
		Stops:         f.stops,
		Airline:       f.airline,
		Origin:        f.origin,
		Destination:   f.destination,
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "farectl",
		Short:         "Estimate flight fares from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPredictCmd(), newEncodeCmd(), newCatalogCmd())
	return root
}

func newPredictCmd() *cobra.Command {
	var (
		flags     itineraryFlags
		modelPath string
		logPath   string
		verbose   bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the price of an itinerary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newCLILogger(cmd.ErrOrStderr(), verbose)
			model, err := source.Load(cmd.Context(), source.NewFileSource(modelPath), logger)
			if err != nil {
				return err
			}

			var log fare.PredictionLog = predictionlog.NewMemoryLog()
			if logPath != "" {
				csvLog, err := predictionlog.NewCSVLog(logPath)
				if err != nil {
					return err
				}
				log = csvLog
			}

			svc := fare.NewService(fare.Config{}, fare.NewInvoker(model), log, nil, logger)
			resp, err := svc.Quote(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			if logPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Data saved to '%s'\n", logPath)
			}
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&modelPath, "model", "models/flight_rf.json", "path to the exported forest")
	cmd.Flags().StringVar(&logPath, "log", "", "append the prediction to this CSV file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	return cmd
}

func newEncodeCmd() *cobra.Command {
	var flags itineraryFlags
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the feature vector for an itinerary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			it, err := fare.ParseItinerary(flags.request())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), fare.Encode(it))
		},
	}
	flags.bind(cmd)
	return cmd
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List known airlines, cities and stop counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), fare.DefaultCatalog())
		},
	}
}

func newCLILogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
