package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"

	"github.com/iilei/jsonease/pkg/jsonease"
	"github.com/iilei/jsonease/pkg/jsonvalue"
)

func dataSourceValidate() *schema.Resource {
	return &schema.Resource{
		Description: "Checks that a document is strict JSON and, when a schema is given, that it satisfies the JSON Schema.",
		ReadContext: dataSourceValidateRead,

		Schema: map[string]*schema.Schema{
			"document": {
				Type:        schema.TypeString,
				Required:    true,
				Description: "JSON document content to validate",
			},
			"schema": {
				Type:        schema.TypeString,
				Optional:    true,
				Description: "Path to a JSON, JSON5, JSONC, YAML or TOML schema file",
			},
			"schema_version": {
				Type:        schema.TypeString,
				Optional:    true,
				Description: "JSON Schema version override for this validation (overrides provider default)",
			},
			"error_message_template": {
				Type:        schema.TypeString,
				Optional:    true,
				Description: "Template name or Go template for schema violations (overrides provider default)",
			},
			"validated": {
				Type:        schema.TypeString,
				Computed:    true,
				Description: "The validated document in minified form",
			},
		},
	}
}

func dataSourceValidateRead(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	cfg, diags := providerConfig(m)
	if diags != nil {
		return diags
	}

	document := d.Get("document").(string)
	schemaPath := d.Get("schema").(string)
	schemaVersion := cfg.Settings.GetEffectiveSchemaVersion(d.Get("schema_version").(string))

	if schemaPath != "" {
		schema, err := jsonease.LoadSchemaFile(schemaPath)
		if err != nil {
			return diag.FromErr(fmt.Errorf("failed to read schema file %q: %w", schemaPath, err))
		}
		err = jsonease.ValidateSchemaValue(document, schema, jsonease.SchemaOptions{
			Version:    schemaVersion,
			Template:   cfg.Settings.GetEffectiveErrorTemplate(d.Get("error_message_template").(string)),
			SchemaName: schemaPath,
		})
		if err != nil {
			return diagnose(ctx, err)
		}
	}

	v, err := jsonease.Parse(document)
	if err != nil {
		return diagnose(ctx, err)
	}
	validated := jsonvalue.Compact(v)

	if err := d.Set("validated", validated); err != nil {
		return diag.Errorf("failed to set validated field: %s", err)
	}
	d.SetId(hash(fmt.Sprintf("%s:%s:%s", validated, schemaPath, schemaVersion)))

	tflog.Debug(ctx, "validated document", map[string]interface{}{"schema": schemaPath})
	return nil
}
