// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

type Config struct {
	ListenAddress string `env:"LISTEN_ADDRESS" envDefault:":3000"      envDocs:"address the websocket gateway, moderator API and metrics listen on"`
	ServiceName   string `env:"SERVICE_NAME"   envDefault:"mission-mm" envDocs:"service name reported to the tracer"`
	LogLevel      string `env:"LOG_LEVEL"      envDefault:"info"       envDocs:"logrus level (debug, info, warn, error)"`
	LogFormat     string `env:"LOG_FORMAT"     envDefault:"json"       envDocs:"json or text"`
	ZipkinURL     string `env:"ZIPKIN_URL"     envDefault:""           envDocs:"zipkin collector endpoint, tracing export is disabled when empty"`

	ReportDir        string `env:"REPORT_DIR"         envDefault:"reports" envDocs:"directory for JSON match reports (empty disables the file sink)"`
	ReportSQLitePath string `env:"REPORT_SQLITE_PATH" envDefault:""        envDocs:"sqlite database for match reports (empty disables the sqlite sink)"`
	ReportS3Bucket   string `env:"REPORT_S3_BUCKET"   envDefault:""        envDocs:"bucket for match reports (empty disables the s3 sink)"`
	ReportS3Prefix   string `env:"REPORT_S3_PREFIX"   envDefault:"reports/" envDocs:"object key prefix for match reports"`
	ReportS3Region   string `env:"REPORT_S3_REGION"   envDefault:"auto"    envDocs:"region of the report bucket"`
	ReportS3Endpoint string `env:"REPORT_S3_ENDPOINT" envDefault:""        envDocs:"custom endpoint for S3 compatible stores"`

	ReportS3AccessKeyID     string `env:"REPORT_S3_ACCESS_KEY_ID"     envDefault:"" envDocs:"static access key, the default AWS credential chain is used when empty"`
	ReportS3SecretAccessKey string `env:"REPORT_S3_SECRET_ACCESS_KEY" envDefault:"" envDocs:"static secret key paired with REPORT_S3_ACCESS_KEY_ID"`

	StatsIntervalSecond int   `env:"STATS_INTERVAL_SECOND" envDefault:"15" envDocs:"how often queue and match gauges are refreshed"`
	RandomSeed          int64 `env:"RANDOM_SEED"           envDefault:"0"  envDocs:"seed for dice and mission draws (0 means seed from crypto/rand)"`

	MatchSize      int     `env:"MATCH_SIZE"      envDefault:"3"           envDocs:"players per automatically formed match"`
	InitialCredits float64 `env:"INITIAL_CREDITS" envDefault:"100"         envDocs:"credits every player starts a match with"`
	SkillLevels    []int   `env:"SKILL_LEVELS"    envDefault:"3,5"         envSeparator:"," envDocs:"skill levels drawn at registration"`
	MaxRounds      int     `env:"MAX_ROUNDS"      envDefault:"10"          envDocs:"round ceiling for fixedRounds matches"`
	MatchObjective string  `env:"MATCH_OBJECTIVE" envDefault:"fixedRounds" envDocs:"fixedRounds or infiniteRounds"`
	CreditsQuota   float64 `env:"CREDITS_QUOTA"   envDefault:"500"         envDocs:"credits needed to win"`
	AutoMatch      bool    `env:"AUTO_MATCH"      envDefault:"true"        envDocs:"form matches from the waiting queue without a moderator"`
}

// Settings returns the game defaults carried by the environment configuration.
func (c *Config) Settings() Settings {
	return Settings{
		MatchSize:      c.MatchSize,
		InitialCredits: c.InitialCredits,
		SkillLevels:    append([]int(nil), c.SkillLevels...),
		MaxRounds:      c.MaxRounds,
		MatchObjective: c.MatchObjective,
		CreditsQuota:   c.CreditsQuota,
		AutoMatch:      c.AutoMatch,
	}
}
