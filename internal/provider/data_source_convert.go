package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/validation"

	"github.com/iilei/jsonease/pkg/convert"
)

func dataSourceConvert() *schema.Resource {
	return &schema.Resource{
		Description: "Converts a JSON document to CSV, XML, YAML or TOML.",
		ReadContext: dataSourceConvertRead,

		Schema: map[string]*schema.Schema{
			"document": {
				Type:        schema.TypeString,
				Required:    true,
				Description: "JSON document content",
			},
			"to": {
				Type:         schema.TypeString,
				Required:     true,
				ValidateFunc: validation.StringInSlice([]string{"csv", "xml", "yaml", "yml", "toml"}, true),
				Description:  "Target format: `csv`, `xml`, `yaml` or `toml`",
			},
			"result": {
				Type:        schema.TypeString,
				Computed:    true,
				Description: "The converted document",
			},
			"content_type": {
				Type:        schema.TypeString,
				Computed:    true,
				Description: "MIME type of the converted document",
			},
		},
	}
}

func dataSourceConvertRead(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	if _, diags := providerConfig(m); diags != nil {
		return diags
	}

	f, err := convert.ParseFormat(d.Get("to").(string))
	if err != nil {
		return diag.FromErr(err)
	}

	result, err := convert.NewService().ConvertText(d.Get("document").(string), f)
	if err != nil {
		return diagnose(ctx, err)
	}

	if err := d.Set("result", result); err != nil {
		return diag.Errorf("failed to set result field: %s", err)
	}
	if err := d.Set("content_type", f.ContentType()); err != nil {
		return diag.Errorf("failed to set content_type field: %s", err)
	}
	d.SetId(hash(string(f) + ":" + result))
	return nil
}
