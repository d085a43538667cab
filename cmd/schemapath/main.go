// Command schemapath reads an XML document and runs it through the path
// finder against a small built-in content model, printing the resulting
// canonical path.
//
// The schema walker that compiles a real XML Schema into schema.Node
// graphs lives outside this module; this command hand-builds one small
// schema in code so the matcher can be exercised end-to-end without one:
// a content model `root { sequence { choice{A,B}+, any{##other}? } }`.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/dshills/schemapath/emit"
	"github.com/dshills/schemapath/match"
	"github.com/dshills/schemapath/metrics"
	"github.com/dshills/schemapath/nsctx"
	"github.com/dshills/schemapath/pathstore"
	"github.com/dshills/schemapath/saxfeed"
	"github.com/dshills/schemapath/schema"
	"github.com/dshills/schemapath/validate"

	"github.com/prometheus/client_golang/prometheus"
)

func demoSchema() *schema.Node {
	a := schema.NewElement(schema.QName{Local: "A"}, 0, schema.Unbounded, schema.TypeInfo{Simple: true}, false, nil)
	b := schema.NewElement(schema.QName{Local: "B"}, 0, schema.Unbounded, schema.TypeInfo{Simple: true}, false, nil)
	choice := schema.NewCompositor(schema.Choice, 1, schema.Unbounded, a, b)
	any := schema.NewAny(0, 1, schema.WildcardSpec{Mode: schema.OtherNamespace})
	seq := schema.NewCompositor(schema.Sequence, 1, 1, choice, any)
	return schema.NewElement(schema.QName{Local: "root"}, 1, 1, schema.TypeInfo{}, false, seq)
}

func main() {
	fs := flag.NewFlagSet("schemapath", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "log every matcher event to stderr")
	sqlitePath := fs.String("sqlite", "", "persist the canonical path to this SQLite file")
	withMetrics := fs.Bool("metrics", false, "register Prometheus metrics for this run")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: schemapath [flags] <document.xml>")
		os.Exit(2)
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		log.Fatalf("schemapath: %v", err)
	}
	defer f.Close()

	var emitter emit.Emitter = emit.NewNullEmitter()
	if *verbose {
		emitter = emit.NewLogEmitter(os.Stderr, false)
	}

	var collector *metrics.Collector
	if *withMetrics {
		collector = metrics.NewCollector(prometheus.NewRegistry())
	}

	docID := uuid.NewString()
	opts := []match.Option{
		match.WithEmitter(emitter),
		match.WithDocID(docID),
	}
	if collector != nil {
		opts = append(opts, match.WithMetrics(collector))
	}

	ns := nsctx.New()
	m, err := match.New(demoSchema(), validate.Lenient{}, ns, opts...)
	if err != nil {
		log.Fatalf("schemapath: build matcher: %v", err)
	}

	root, err := saxfeed.Feed(f, m, ns)
	if err != nil {
		log.Fatalf("schemapath: %v", err)
	}

	idOf := func(ssn *schema.Node) string { return ssn.QName.Local + ":" + ssn.Kind.String() }
	steps := pathstore.Render(root, idOf)
	for i, step := range steps {
		fmt.Printf("%3d  %-8s %-20s iter=%d\n", i, step.Direction, step.SchemaID, step.Iteration)
	}

	if *sqlitePath != "" {
		store, err := pathstore.NewSQLite(*sqlitePath)
		if err != nil {
			log.Fatalf("schemapath: open sqlite store: %v", err)
		}
		defer store.Close()
		if err := store.SavePath(context.Background(), docID, steps); err != nil {
			log.Fatalf("schemapath: save path: %v", err)
		}
		fmt.Printf("saved canonical path for doc %s to %s\n", docID, *sqlitePath)
	}
}
