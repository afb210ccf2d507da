// Package io reads and writes funnel chart documents.
//
// A document pairs a chart configuration with its segment data. It can be
// stored as JSON:
//
//	{
//	  "config": {"width_top": 0.8, "fill_color": "#1f77b4"},
//	  "segments": [
//	    {"value": 1200, "label": "Visits"},
//	    {"value": 300, "label": "Carts", "sections": [
//	      {"value": 2, "label": "web"},
//	      {"value": 1, "label": "app", "color": "#ff7f0e"}
//	    ]}
//	  ]
//	}
//
// or as TOML:
//
//	[config]
//	width_top = 0.8
//
//	[[segments]]
//	value = 1200
//	label = "Visits"
//
//	[[segments]]
//	value = 300
//	label = "Carts"
//
//	  [[segments.sections]]
//	  value = 2
//	  label = "web"
//
// Config fields missing from a document keep their [funnel.DefaultConfig]
// values. Readers only decode; validation happens when the chart is built.
package io
