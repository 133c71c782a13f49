package conf

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Bootstrap is the root of configs/config.yaml.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Engine *Engine `json:"engine"`
	Source *Source `json:"source"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Data holds the backing stores. A section left empty disables its store.
type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
	Rabbitmq *Data_Rabbitmq `json:"rabbitmq"`
}

type Data_Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Data_Redis struct {
	Addr     string   `json:"addr"`
	CacheTtl Duration `json:"cache_ttl"`
}

type Data_Rabbitmq struct {
	Host       string `json:"host"`
	Port       int32  `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Vhost      string `json:"vhost"`
	Exchange   string `json:"exchange"`
	RoutingKey string `json:"routing_key"`
}

// Engine configures the grid, the alphabet and the symbol source.
type Engine struct {
	Rows         int32        `json:"rows"`
	Cols         int32        `json:"cols"`
	MinCluster   int32        `json:"min_cluster"`
	Symbols      []string     `json:"symbols"`
	Wildcard     string       `json:"wildcard"`
	Weights      []int32      `json:"weights"`
	ScorePerCell string       `json:"score_per_cell"`
	MaxCascades  int32        `json:"max_cascades"`
	Seed         uint64       `json:"seed"`
	Fair         *Engine_Fair `json:"fair"`
}

type Engine_Fair struct {
	ServerSeed string `json:"server_seed"`
	ClientSeed string `json:"client_seed"`
	Nonce      uint64 `json:"nonce"`
}

// Source configures the round source delivery.
type Source struct {
	Id         string   `json:"id"`
	Mode       string   `json:"mode"`
	MinDelay   Duration `json:"min_delay"`
	MaxDelay   Duration `json:"max_delay"`
	SlowChance float64  `json:"slow_chance"`
	SlowDelay  Duration `json:"slow_delay"`
}

// Duration accepts "1.5s" style strings or integer nanoseconds.
type Duration time.Duration

func (d Duration) AsDuration() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = Duration(p)
	case float64:
		*d = Duration(time.Duration(x))
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
