package main

import (
	"encoding/json"
	"fmt"
	"os"

	pedestal "github.com/moller-exp/pedestal_go/pkg"
)

func LoadConfiguration(filename string) (pedestal.Configuration, error) {
	var config pedestal.Configuration

	// Set default values
	config.Verbosity = 0
	config.RatesColumn = "NormRate(Hz/uA)"
	config.TileField = "tile"
	config.RateField = "Average Rate [GHz]"
	config.NoDB = true
	config.Host = "moller-db.jlab.org"
	config.User = "mollerreader"
	config.Passwd = "readonly"
	config.DBName = "MOLLER"
	config.RunNumber = 0
	config.WriteData = true

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return config, err
	}
	return config, nil
}

func printConfiguration(config pedestal.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Map file: %s", config.MapFile), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Rates file: %s", config.RatesFile), "config")
	logger.Info(fmt.Sprintf("Rates column: %s", config.RatesColumn), "config")
	logger.Info(fmt.Sprintf("Tile field: %s", config.TileField), "config")
	logger.Info(fmt.Sprintf("Rate field: %s", config.RateField), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
}
