package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/validation"
)

const (
	modeFormat = "format"
	modeMinify = "minify"
)

func dataSourceFormat() *schema.Resource {
	return &schema.Resource{
		Description: "Pretty-prints or minifies a JSON document.",
		ReadContext: dataSourceFormatRead,

		Schema: map[string]*schema.Schema{
			"document": {
				Type:        schema.TypeString,
				Required:    true,
				Description: "JSON document content",
			},
			"mode": {
				Type:         schema.TypeString,
				Optional:     true,
				Default:      modeFormat,
				ValidateFunc: validation.StringInSlice([]string{modeFormat, modeMinify}, false),
				Description:  "`format` (pretty-print) or `minify`",
			},
			"indent": {
				Type:             schema.TypeString,
				Optional:         true,
				ValidateDiagFunc: validateIndent,
				Description:      "Indentation override for this document (overrides provider default)",
			},
			"result": {
				Type:        schema.TypeString,
				Computed:    true,
				Description: "The formatted document",
			},
		},
	}
}

func dataSourceFormatRead(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	cfg, diags := providerConfig(m)
	if diags != nil {
		return diags
	}

	document := d.Get("document").(string)
	mode := d.Get("mode").(string)

	svc, err := cfg.service(d.Get("indent").(string))
	if err != nil {
		return diag.FromErr(err)
	}

	var result string
	if mode == modeMinify {
		result, err = svc.Minify(document)
	} else {
		result, err = svc.Format(document)
	}
	if err != nil {
		return diagnose(ctx, err)
	}

	if err := d.Set("result", result); err != nil {
		return diag.Errorf("failed to set result field: %s", err)
	}
	d.SetId(hash(mode + ":" + result))

	tflog.Trace(ctx, "formatted document", map[string]interface{}{"mode": mode, "bytes": len(result)})
	return nil
}
