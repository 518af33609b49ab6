// Package validate checks generated dashboards and rule files by parsing
// every PromQL expression and resolving the metric names it selects.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/vinyl-pricer/tools/dashgen/rules"
)

var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Result collects validation findings. Errors fail generation, warnings
// are reported only.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Metrics parses expr and returns the metric names referenced by its
// selectors in order of appearance.
func Metrics(expr string) ([]string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}

	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names, nil
}

// Known reports whether name is in known, either directly or as a histogram
// series of a known metric.
func Known(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	names, err := Metrics(expr)
	if err != nil {
		res.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	if len(names) == 0 {
		res.warnf("%s: expression %q selects no metrics", where, expr)
	}
	for _, name := range names {
		if !Known(name, known) {
			res.errorf("%s: unknown metric %q", where, name)
		}
	}
}

// Dashboard validates every panel target in dash, including panels nested
// inside rows.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range dash.Panels {
		switch {
		case p.Panel != nil:
			checkPanel(&res, *p.Panel, known)
		case p.RowPanel != nil:
			for _, inner := range p.RowPanel.Panels {
				checkPanel(&res, inner, known)
			}
		}
	}
	return res
}

func checkPanel(res *Result, p dashboard.Panel, known map[string]bool) {
	title := "untitled"
	if p.Title != nil {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		res.warnf("panel %q has no targets", title)
		return
	}

	for i, target := range p.Targets {
		expr, err := targetExpr(target)
		if err != nil {
			res.errorf("panel %q target %d: %v", title, i, err)
			continue
		}
		if expr == "" {
			res.errorf("panel %q target %d: empty expression", title, i)
			continue
		}
		checkExpr(res, fmt.Sprintf("panel %q", title), expr, known)
	}
}

// targetExpr reads the expr field through the target's JSON form so that
// any Prometheus dataquery variant is handled the same way.
func targetExpr(target any) (string, error) {
	raw, err := json.Marshal(target)
	if err != nil {
		return "", fmt.Errorf("encoding target: %w", err)
	}
	var q struct {
		Expr string `json:"expr"`
	}
	if err := json.Unmarshal(raw, &q); err != nil {
		return "", fmt.Errorf("decoding target: %w", err)
	}
	return q.Expr, nil
}

// Rules validates every expression in cr. Recording rule names must also
// appear in known so dashboards and alerts can reference them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			where := fmt.Sprintf("%s/%s", group.Name, name)
			if rule.Record != "" && !known[rule.Record] {
				res.errorf("%s: recording rule is not registered as a known metric", where)
			}
			checkExpr(&res, where, rule.Expr, known)
		}
	}
	return res
}
