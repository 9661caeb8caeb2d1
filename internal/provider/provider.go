package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
)

func init() {
	schema.DescriptionKind = schema.StringMarkdown
}

func New(version string) func() *schema.Provider {
	return func() *schema.Provider {
		p := &schema.Provider{
			Schema: map[string]*schema.Schema{
				"indent": {
					Type:             schema.TypeString,
					Optional:         true,
					Default:          "2",
					ValidateDiagFunc: validateIndent,
					Description:      "Default indentation for formatted output: `1`..`10` spaces or `tab`.",
				},
				"auto_repair": {
					Type:        schema.TypeBool,
					Optional:    true,
					Default:     false,
					Description: "Repair documents (trailing commas, single quotes, comments) when strict parsing fails.",
				},
				"schema_version": {
					Type:        schema.TypeString,
					Optional:    true,
					Description: "Default JSON Schema version for `jsonease_validate` when the schema has no `$schema`. Supported values: `draft-04`, `draft-06`, `draft-07`, `draft/2019-09`, `draft/2020-12`",
				},
				"error_message_template": {
					Type:        schema.TypeString,
					Optional:    true,
					Description: "Default template for schema violations: a template name (`simple`, `detailed`, `with_path`, `with_schema`, `basic`, `verbose`) or a Go template over `{{.FullMessage}}`, `{{.Errors}}`, `{{.ErrorCount}}`, `{{.SchemaFile}}`.",
				},
			},
			DataSourcesMap: map[string]*schema.Resource{
				"jsonease_format":   dataSourceFormat(),
				"jsonease_repair":   dataSourceRepair(),
				"jsonease_convert":  dataSourceConvert(),
				"jsonease_validate": dataSourceValidate(),
			},
			ConfigureContextFunc: providerConfigure,
		}

		return p
	}
}

func Provider() *schema.Provider {
	return New("dev")()
}

func providerConfigure(ctx context.Context, d *schema.ResourceData) (interface{}, diag.Diagnostics) {
	var diags diag.Diagnostics

	indent := d.Get("indent").(string)
	autoRepair := d.Get("auto_repair").(bool)
	schemaVersion := d.Get("schema_version").(string)
	errorTemplate := d.Get("error_message_template").(string)

	config, err := NewProviderConfig(indent, autoRepair, schemaVersion, errorTemplate)
	if err != nil {
		return nil, diag.FromErr(err)
	}

	tflog.Debug(ctx, "configured jsonease provider", map[string]interface{}{
		"indent":      indent,
		"auto_repair": autoRepair,
	})
	return config, diags
}
