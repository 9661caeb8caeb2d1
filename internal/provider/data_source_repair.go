package provider

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/hashicorp/terraform-plugin-sdk/v2/diag"
	"github.com/hashicorp/terraform-plugin-sdk/v2/helper/schema"
)

func dataSourceRepair() *schema.Resource {
	return &schema.Resource{
		Description: "Recovers a value from near-miss JSON: trailing commas, single quotes, comments and unquoted keys.",
		ReadContext: dataSourceRepairRead,

		Schema: map[string]*schema.Schema{
			"document": {
				Type:        schema.TypeString,
				Required:    true,
				Description: "Document content to repair",
			},
			"indent": {
				Type:             schema.TypeString,
				Optional:         true,
				ValidateDiagFunc: validateIndent,
				Description:      "Indentation override for the repaired document",
			},
			"result": {
				Type:        schema.TypeString,
				Computed:    true,
				Description: "The repaired document as strict JSON",
			},
			"changed": {
				Type:        schema.TypeBool,
				Computed:    true,
				Description: "Whether any repair heuristic rewrote the input",
			},
			"parser": {
				Type:        schema.TypeString,
				Computed:    true,
				Description: "`strict` or `tolerant`: the parser that recovered the value",
			},
			"steps": {
				Type:        schema.TypeList,
				Computed:    true,
				Description: "Outcome of each repair heuristic, in order",
				Elem: &schema.Resource{
					Schema: map[string]*schema.Schema{
						"name": {
							Type:     schema.TypeString,
							Computed: true,
						},
						"status": {
							Type:     schema.TypeString,
							Computed: true,
						},
					},
				},
			},
		},
	}
}

func dataSourceRepairRead(ctx context.Context, d *schema.ResourceData, m interface{}) diag.Diagnostics {
	cfg, diags := providerConfig(m)
	if diags != nil {
		return diags
	}

	svc, err := cfg.service(d.Get("indent").(string))
	if err != nil {
		return diag.FromErr(err)
	}

	res, err := svc.Repair(d.Get("document").(string))
	if err != nil {
		return diagnose(ctx, err)
	}

	steps := make([]interface{}, len(res.Steps))
	for i, s := range res.Steps {
		steps[i] = map[string]interface{}{
			"name":   s.Name,
			"status": string(s.Status),
		}
	}

	if err := d.Set("result", res.Text); err != nil {
		return diag.Errorf("failed to set result field: %s", err)
	}
	if err := d.Set("changed", res.Changed()); err != nil {
		return diag.Errorf("failed to set changed field: %s", err)
	}
	if err := d.Set("parser", string(res.Parser)); err != nil {
		return diag.Errorf("failed to set parser field: %s", err)
	}
	if err := d.Set("steps", steps); err != nil {
		return diag.Errorf("failed to set steps field: %s", err)
	}
	d.SetId(hash(res.Text))

	tflog.Debug(ctx, "repaired document", map[string]interface{}{"changed": res.Changed(), "parser": string(res.Parser)})
	return nil
}
