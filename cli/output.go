package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/fplkit/core"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// estimateView 是预测结果的输出结构
type estimateView struct {
	Rank   int       `json:"rank,omitempty" yaml:"rank,omitempty"`
	Name   string    `json:"name" yaml:"name"`
	Points int       `json:"points" yaml:"points"`
	Raw    float64   `json:"raw" yaml:"raw"`
	Stats  []float64 `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// paramsView 是模型参数的输出结构
type paramsView struct {
	Model        string    `json:"model" yaml:"model"`
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	Features     []string  `json:"features,omitempty" yaml:"features,omitempty"`
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want text, json or yaml)", format)
	}
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return checkFormat(format)
	}
}

// writeEstimates 输出预测结果；ranked 为 true 时带名次列。
func writeEstimates(w io.Writer, format string, ests []core.Estimate, ranked, verbose bool) error {
	views := make([]estimateView, len(ests))
	for i, est := range ests {
		views[i] = estimateView{Name: est.Name, Points: est.Points, Raw: est.Raw}
		if ranked {
			views[i].Rank = i + 1
		}
		if verbose {
			views[i].Stats = est.Stats
		}
	}
	if format != formatText {
		return encode(w, format, views)
	}
	// 纯 predict 输出为 NAME<TAB>POINTS
	if !ranked && !verbose {
		for _, v := range views {
			if _, err := fmt.Fprintf(w, "%s\t%d\n", v.Name, v.Points); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range views {
		if ranked {
			fmt.Fprintf(tw, "%d\t", v.Rank)
		}
		fmt.Fprintf(tw, "%s\t%d", v.Name, v.Points)
		if verbose {
			fmt.Fprintf(tw, "\t%.4f\t%v", v.Raw, v.Stats)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
