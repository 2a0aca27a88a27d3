// internal/services/application/export-applications/config.go
package exportapplications

const (
	SheetName   = "HR Applications"
	ContentType = "application/zip"

	workbookPrefix = "HR_Applications_Data_"
	archivePrefix  = "HR_Applications_Complete_"
	dateLayout     = "2006-01-02"
)

type Config struct {
	SheetName string
}

func LoadConfig() *Config {
	return &Config{
		SheetName: SheetName,
	}
}
