package configuration

import (
	"time"

	"github.com/adampresley/configinator"
	"github.com/minzhangphoto/portfolio/pkg/viewstate"
)

type Config struct {
	AwsEndpointUrl          string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion               string `flag:"awsregion" env:"AWS_REGION" default:"us-east-1" description:"AWS region"`
	AwsAccessKeyId          string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey      string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket               string `flag:"awsbucket" env:"AWS_BUCKET" default:"minzhangphoto" description:"S3 bucket holding collection snapshots"`
	BaseOrigin              string `flag:"baseorigin" env:"BASE_ORIGIN" default:"https://api.minzhangphoto.com" description:"Origin for the collections API and relative image paths"`
	CollectionsPath         string `flag:"collectionspath" env:"COLLECTIONS_PATH" default:"/api/collections" description:"Path of the collections endpoint on the base origin. Empty uses the origin itself"`
	DataSource              string `flag:"datasource" env:"DATA_SOURCE" default:"http" description:"Where collections come from. Valid values are 'http' and 's3'"`
	DSN                     string `flag:"dsn" env:"DSN" default:"file:./data/portfolio.db" description:"Data source name for the preview store"`
	EmphasisDurationMs      int    `flag:"emphasisms" env:"EMPHASIS_DURATION_MS" default:"1200" description:"How long a selected image stays emphasized"`
	FeatureContactSheet     bool   `flag:"contactsheet" env:"FEATURE_CONTACT_SHEET" default:"true" description:"Enable the contact sheet overlay"`
	FeatureLocationGrouping bool   `flag:"locationgrouping" env:"FEATURE_LOCATION_GROUPING" default:"true" description:"Enable the by-location navigation view"`
	FeatureParallaxHero     bool   `flag:"parallaxhero" env:"FEATURE_PARALLAX_HERO" default:"true" description:"Enable the parallax hero"`
	FetchTimeoutSeconds     int    `flag:"fetchtimeout" env:"FETCH_TIMEOUT_SECONDS" default:"30" description:"Timeout for the collections fetch"`
	HeaderClearance         int    `flag:"headerclearance" env:"HEADER_CLEARANCE" default:"100" description:"Space left above a project row when scrolling to it"`
	Host                    string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogLevel                string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxCacheWorkers         int    `flag:"mcc" env:"MAX_CACHE_WORKERS" default:"10" description:"Maximum number of concurrent preview cache workers"`
	ParallaxPercent         int    `flag:"parallaxpercent" env:"PARALLAX_PERCENT" default:"50" description:"Hero parallax speed as a percentage of page scroll"`
	PreviewMaxSize          int    `flag:"previewsize" env:"PREVIEW_MAX_SIZE" default:"300" description:"Longest edge, in pixels, of list-row previews"`
	SettleDelayMs           int    `flag:"settlems" env:"SETTLE_DELAY_MS" default:"400" description:"Wait after closing the contact sheet before scrolling to an image"`
	SnapshotPrefix          string `flag:"snapshotprefix" env:"SNAPSHOT_PREFIX" default:"collections" description:"S3 prefix holding collection snapshots"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}

func (c Config) Features() viewstate.Features {
	return viewstate.Features{
		ParallaxHero:     c.FeatureParallaxHero,
		ContactSheet:     c.FeatureContactSheet,
		LocationGrouping: c.FeatureLocationGrouping,
	}
}

func (c Config) ParallaxFactor() float64 {
	return float64(c.ParallaxPercent) / 100
}

func (c Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}

func (c Config) EmphasisDuration() time.Duration {
	return time.Duration(c.EmphasisDurationMs) * time.Millisecond
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
