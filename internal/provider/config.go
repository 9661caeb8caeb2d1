package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/hashicorp/go-cty/cty"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"

	"github.com/iilei/jsonease/pkg/config"
	"github.com/iilei/jsonease/pkg/jsonease"
	"github.com/iilei/jsonease/pkg/jsonvalue"
)

// ProviderConfig holds the provider-level configuration
type ProviderConfig struct {
	// Settings are the provider attributes validated like any other jsonease
	// settings source.
	Settings *config.Config

	// Service applies the provider indentation and auto-repair policy.
	Service *jsonease.Service
}

// NewProviderConfig creates a new provider configuration from the provider
// attributes. Empty values keep the jsonease defaults.
func NewProviderConfig(indent string, autoRepair bool, schemaVersion, errorTemplate string) (*ProviderConfig, error) {
	settings := config.NewConfig()
	if indent != "" {
		settings.Indent = indent
	}
	settings.AutoRepair = autoRepair
	settings.SchemaVersion = schemaVersion
	settings.ErrorTemplate = errorTemplate

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if _, err := jsonease.DraftForVersion(schemaVersion); err != nil {
		return nil, err
	}

	return &ProviderConfig{
		Settings: settings,
		Service:  jsonease.NewService(settings.IndentPolicy(), settings.AutoRepair),
	}, nil
}

// service returns the provider service, or one using the given indent
// override.
func (c *ProviderConfig) service(indent string) (*jsonease.Service, error) {
	if indent == "" {
		return c.Service, nil
	}
	policy, err := jsonvalue.ParseIndent(indent)
	if err != nil {
		return nil, err
	}
	return jsonease.NewService(policy, c.Settings.AutoRepair), nil
}

func providerConfig(m interface{}) (*ProviderConfig, diag.Diagnostics) {
	cfg, ok := m.(*ProviderConfig)
	if !ok {
		return nil, diag.Errorf("invalid provider configuration")
	}
	return cfg, nil
}

// diagnose turns a failed operation into a Terraform diagnostic whose summary
// is the user-facing diagnosis text.
func diagnose(ctx context.Context, err error) diag.Diagnostics {
	d := jsonease.DiagnosisOf(err)
	if d == nil {
		return diag.FromErr(err)
	}

	fields := map[string]interface{}{"kind": string(d.Kind)}
	detail := fmt.Sprintf("Failure kind: %s.", d.Kind)
	if d.Position != nil {
		fields["line"] = d.Position.Line
		fields["column"] = d.Position.Column
		detail = fmt.Sprintf("Failure kind: %s at line %d, column %d of the document.", d.Kind, d.Position.Line, d.Position.Column)
	}
	tflog.Debug(ctx, "jsonease operation failed", fields)

	return diag.Diagnostics{{
		Severity:      diag.Error,
		Summary:       d.Error(),
		Detail:        detail,
		AttributePath: cty.GetAttrPath("document"),
	}}
}

func validateIndent(v interface{}, path cty.Path) diag.Diagnostics {
	s, ok := v.(string)
	if !ok {
		return diag.Errorf("indent must be a string")
	}
	if _, err := jsonvalue.ParseIndent(s); err != nil {
		return diag.Diagnostics{{Severity: diag.Error, Summary: err.Error(), AttributePath: path}}
	}
	return nil
}

func hash(s string) string {
	sha := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sha[:])
}
