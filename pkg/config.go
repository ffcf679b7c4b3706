package pedestal

type Configuration struct {
	MapFile     string `json:"map_file"`
	FileOut     string `json:"file_out"`
	RatesFile   string `json:"rates_file"`
	RatesColumn string `json:"rates_column"`
	TileField   string `json:"tile_field"`
	RateField   string `json:"rate_field"`
	Verbosity   int    `json:"verbosity"`
	NoDB        bool   `json:"no_db"`
	Host        string `json:"host"`
	User        string `json:"user"`
	Passwd      string `json:"pass"`
	DBName      string `json:"dbname"`
	RunNumber   int    `json:"run_number"`
	WriteData   bool   `json:"write_data"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}
