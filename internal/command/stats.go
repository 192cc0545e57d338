package command

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
)

// Stat is the record count of one array in one file.
type Stat struct {
	File    string `json:"file" yaml:"file"`
	Key     string `json:"key" yaml:"key"`
	Records int    `json:"records" yaml:"records"`
}

// StatsResult is the output of bizctl stats.
type StatsResult struct {
	Dir   string `json:"dir" yaml:"dir"`
	Total int    `json:"total" yaml:"total"`
	Stats []Stat `json:"collections" yaml:"collections"`
}

func (r StatsResult) Header() []string { return []string{"FILE", "KEY", "RECORDS"} }

func (r StatsResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Stats)+1)
	for _, s := range r.Stats {
		rows = append(rows, []string{s.File + ".json", s.Key, strconv.Itoa(s.Records)})
	}
	return append(rows, []string{"", "total", strconv.Itoa(r.Total)})
}

// NewStatsCommand counts the records of every collection.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the record count of every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := EnvFrom(cmd.Context())
			if err != nil {
				return err
			}
			res := StatsResult{Dir: env.DB.Dir()}
			for _, c := range collections {
				for _, key := range c.Keys {
					n, err := jsonstore.NewNestedCollection[json.RawMessage](env.DB, c.File, key).Count(cmd.Context())
					if err != nil {
						return err
					}
					res.Stats = append(res.Stats, Stat{File: c.File, Key: key, Records: n})
					res.Total += n
				}
			}
			return env.Printer.Print(res)
		},
	}
}
