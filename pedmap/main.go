package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	sqlx "github.com/jmoiron/sqlx"
	pedestal "github.com/moller-exp/pedestal_go/pkg"
)

var dbConn *sqlx.DB
var configuration pedestal.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	overlayEnvironment(&configuration)
	pedestal.SetConfiguration(configuration)
	pedestal.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	var mapFile *pedestal.MapFile
	switch {
	case configuration.MapFile != "":
		mapFile, err = pedestal.OpenMapFile(configuration.MapFile)
		if err != nil {
			message := fmt.Errorf("Error opening map file: %w", err)
			logger.Error(message.Error())
			return
		}
	case !configuration.NoDB:
		dbConn, err = pedestal.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("Error connecting to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()
		mapFile, err = pedestal.LoadPedestalsFromDB(dbConn, configuration.RunNumber)
		if err != nil {
			message := fmt.Errorf("Error loading pedestals from database: %w", err)
			logger.Error(message.Error())
			return
		}
	default:
		logger.Error("No map file configured and DB access disabled")
		return
	}

	message := fmt.Sprintf("Pedestal table ready: %d rows, %d columns", mapFile.RowCount(), mapFile.ColumnCount())
	logger.Info(message, "main")

	if configuration.RatesFile != "" {
		if err := mapFile.ImportRates(configuration.RatesFile); err != nil {
			message := fmt.Errorf("Error importing rates: %w", err)
			logger.Error(message.Error())
			return
		}
		if VerbosityLevel > 0 {
			printColumnSummary(mapFile, configuration.RatesColumn)
		}
	}

	if !configuration.WriteData {
		return
	}
	if configuration.FileOut != "" {
		err = mapFile.SaveAs(configuration.FileOut, true)
	} else {
		err = mapFile.Save()
	}
	if err != nil {
		message := fmt.Errorf("Error saving map file: %w", err)
		logger.Error(message.Error())
		return
	}
	logger.Info("Save successful", "main")
}

func printColumnSummary(mapFile *pedestal.MapFile, column string) {
	summary, err := mapFile.ColumnStats(column)
	if err != nil {
		logger.Error(fmt.Sprintf("Error summarizing column %q: %v", column, err))
		return
	}
	message := fmt.Sprintf("%s: mean %g, stddev %g, min %g, max %g",
		column, summary.Mean, summary.StdDev, summary.Min, summary.Max)
	logger.Info(message, "main")
}

// overlayEnvironment lets DB credentials come from the environment or a
// local .env file instead of the JSON config.
func overlayEnvironment(config *pedestal.Configuration) {
	_ = godotenv.Load()
	if v := os.Getenv("PEDMAP_DB_USER"); v != "" {
		config.User = v
	}
	if v := os.Getenv("PEDMAP_DB_PASS"); v != "" {
		config.Passwd = v
	}
	if v := os.Getenv("PEDMAP_DB_HOST"); v != "" {
		config.Host = v
	}
}
