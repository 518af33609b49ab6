// Package rules builds the Prometheus Operator rule resources that ship
// alongside the vinyl-pricer dashboard.
package rules

// RuleSelectorLabel is the label the cluster's Prometheus uses to pick up
// rule resources.
const RuleSelectorLabel = "prometheus"

// RuleSelectorValue is the value RuleSelectorLabel must carry.
const RuleSelectorValue = "system-rules-prometheus"

// PrometheusRule is a monitoring.coreos.com/v1 PrometheusRule resource.
type PrometheusRule struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   PrometheusRuleMetadata `yaml:"metadata"`
	Spec       PrometheusRuleSpec     `yaml:"spec"`
}

// PrometheusRuleMetadata is the subset of object metadata the generator sets.
type PrometheusRuleMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// PrometheusRuleSpec lists rule groups.
type PrometheusRuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is evaluated as a unit at Interval, or the global interval
// when empty.
type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule sets exactly one of Record or Alert.
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// newResource wraps a single group in a PrometheusRule named name.
func newResource(name string, group RuleGroup) PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name:   name,
			Labels: map[string]string{RuleSelectorLabel: RuleSelectorValue},
		},
		Spec: PrometheusRuleSpec{Groups: []RuleGroup{group}},
	}
}

func record(name, expr string) Rule {
	return Rule{Record: name, Expr: expr}
}
