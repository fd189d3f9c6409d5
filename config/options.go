package config

const (
	defaultVersion           = "0.2.0"
	defaultLogFile           = "maktaba.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultData              = "/var/opt/maktaba"
	defaultDSN               = defaultData + "/maktaba.db"
	defaultMaxUploadSize     = 10
	defaultLoanPeriodDays    = 14

	// The product rule for reservation expiry is still undecided, so the
	// sweeper stays off until an operator sets reservation_hold_days.
	defaultReservationHoldDays    = 0
	defaultExpirySweepIntervalMin = 60
)

type Option struct {
	Key   string
	Value interface{}
}

// Options use mapstructure instead of json tags because viper unmarshals
// through mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// Version is the version of the application
	Version string `mapstructure:"version"`
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store data
	Data string `mapstructure:"data"`
	// MaxUploadSize is the maximum size of an uploaded import file, in MiB
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	// LoanPeriodDays is the borrowing period applied when a pickup is confirmed
	LoanPeriodDays int `mapstructure:"loan_period_days"`
	// ReservationHoldDays is how long a pending reservation is held before
	// it expires and the copy is released. Zero disables expiry.
	ReservationHoldDays int `mapstructure:"reservation_hold_days"`
	// ExpirySweepIntervalMin is the interval, in minutes, between expiry sweeps
	ExpirySweepIntervalMin int `mapstructure:"expiry_sweep_interval_min"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		Version:                defaultVersion,
		LogFile:                defaultLogFile,
		LogLevel:               defaultLogLevel,
		LogFileMaxSize:         defaultLogFileMaxSize,
		LogFileMaxBackups:      defaultLogFileMaxBackups,
		LogFileMaxAge:          defaultLogFileMaxAge,
		LogCompress:            defaultLogCompress,
		DSN:                    defaultDSN,
		Port:                   defaultPort,
		Host:                   defaultHost,
		Data:                   defaultData,
		MaxUploadSize:          defaultMaxUploadSize,
		LoanPeriodDays:         defaultLoanPeriodDays,
		ReservationHoldDays:    defaultReservationHoldDays,
		ExpirySweepIntervalMin: defaultExpirySweepIntervalMin,
	}
	return Opts
}
