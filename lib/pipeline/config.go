package pipeline

import (
	"os"
	"tablescrape/lib/configutil"
	"tablescrape/lib/spreadsheet"
)

const (
	DefaultURL        = "https://www.ine.es/dyngs/INEbase/es/operacion.htm?c=Estadistica_C&cid=1254736176802&menu=ultiDatos&idp=1254735976607"
	DefaultTableClass = "tablaCat"
	DefaultOutputPath = "table_data.xlsx"
)

// Config is the shape of tablescrape.json5.
type Config struct {
	// page to fetch
	URL string `json:"url"`
	// class carried by the target <table>
	TableClass string `json:"table_class"`
	// destination file, its extension selects the format (.xlsx or .csv)
	OutputPath string `json:"output_path"`
	SheetName  string `json:"sheet_name"`
	// the first row is data instead of column labels
	NoHeader  bool   `json:"no_header"`
	UserAgent string `json:"user_agent"`
	// seconds, 0 means no timeout
	Timeout          int  `json:"timeout"`
	CloudflareBypass bool `json:"cloudflare_bypass"`
	// directory receiving raw HTTP dumps while logging verbosely
	DumpDir string `json:"dump_dir"`
}

func DefaultConfig() Config {
	return Config{
		URL:        DefaultURL,
		TableClass: DefaultTableClass,
		OutputPath: DefaultOutputPath,
		SheetName:  spreadsheet.DefaultSheetName,
	}
}

// LoadConfig reads the config file at path (and its .local override) and
// fills what it leaves out with DefaultConfig. A missing file is not an
// error.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	return configutil.WithDefaults(cfg, DefaultConfig())
}
