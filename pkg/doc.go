// Package pkg provides the libraries behind the funnel command.
//
// # Overview
//
// A funnel chart draws a sequence of staged values (visits, carts, orders)
// as stacked trapezoids that narrow from top to bottom. The pkg directory is
// organised into these areas:
//
//  1. [funnel] - Chart geometry, layout, hit-testing and render sinks
//  2. [io] - JSON and TOML documents
//  3. [pipeline] - Orchestration (document → layout → render) with caching
//  4. [cache], [session] - Artifact cache and chart-session storage
//  5. [server] - HTTP API over chart sessions
//  6. [observability], [errors], [buildinfo] - Ambient support
//
// # Architecture
//
// The data flow through a render:
//
//	JSON/TOML document
//	         ↓
//	    [io] package (decode document)
//	         ↓
//	    [funnel] package (geometry + layout + hit router)
//	         ↓
//	    [funnel/sink] package (SVG, PNG, JSON)
//
// # Quick Start
//
//	doc, err := io.Import("sales.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{Formats: []string{"svg"}})
//
// [funnel]: github.com/matzehuels/funnel/pkg/funnel
// [io]: github.com/matzehuels/funnel/pkg/io
// [pipeline]: github.com/matzehuels/funnel/pkg/pipeline
// [cache]: github.com/matzehuels/funnel/pkg/cache
// [session]: github.com/matzehuels/funnel/pkg/session
// [server]: github.com/matzehuels/funnel/pkg/server
// [observability]: github.com/matzehuels/funnel/pkg/observability
// [errors]: github.com/matzehuels/funnel/pkg/errors
// [buildinfo]: github.com/matzehuels/funnel/pkg/buildinfo
package pkg
