// Command logwire-demo shows a minimal producer/consumer round trip: a
// single self-contained main() with a few named scenario functions, no
// flag parsing library, logging via the standard log package.
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/arfz/logwire"
	"github.com/arfz/logwire/catalog"
	"github.com/arfz/logwire/consumer"
	"github.com/arfz/logwire/producer"
	"github.com/arfz/logwire/runtimeconfig"
)

func main() {
	fmt.Println("logwire demo")
	fmt.Println("============")

	fmt.Println("\n1. Inline template, no catalog:")
	inlineExample()

	fmt.Println("\n2. Cataloged template and string literal:")
	catalogExample()

	fmt.Println("\n3. Containers and a duration:")
	containerExample()

	fmt.Println("\n4. Resynchronizing across noise:")
	noiseExample()

	fmt.Println("\n5. Host configuration (runtimeconfig):")
	configExample()
}

func inlineExample() {
	frame, err := logwire.Print("Test {}", producer.Int(123))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("   frame: %d bytes\n", len(frame))

	msg, ok, _, _ := logwire.Parse(frame)
	if !ok {
		log.Fatal("parse failed")
	}
	fmt.Printf("   rendered: %q\n", msg)
}

func catalogExample() {
	builder := catalog.NewBuilder()
	if _, err := builder.Register("{} connected from {}"); err != nil {
		log.Fatal(err)
	}
	if _, err := builder.Register("unknown-host"); err != nil {
		log.Fatal(err)
	}

	enc, err := producer.NewEncoder(producer.WithCatalog(builder))
	if err != nil {
		log.Fatal(err)
	}
	sink := producer.NewBufferSink()
	defer sink.Release()

	err = enc.Print(sink, "{} connected from {}", producer.Uint(7), producer.CatalogedString("unknown-host"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("   frame: %d bytes, %d catalog entries\n", len(sink.Bytes()), builder.Count())

	sidecar := builder.Build()
	framer, err := consumer.NewFramer(consumer.WithCatalog(sidecar))
	if err != nil {
		log.Fatal(err)
	}
	msg, ok, _, _ := framer.Next(sink.Bytes())
	if !ok {
		log.Fatal("parse failed")
	}
	fmt.Printf("   rendered: %q\n", msg)
}

func containerExample() {
	frame, err := logwire.Print("clients={}, idle={}",
		producer.List(producer.String("alice"), producer.String("bob")),
		producer.Duration(1500*time.Millisecond),
	)
	if err != nil {
		log.Fatal(err)
	}

	msg, ok, _, _ := logwire.Parse(frame)
	if !ok {
		log.Fatal("parse failed")
	}
	fmt.Printf("   rendered: %q\n", msg)
}

func noiseExample() {
	frame, err := logwire.Print("Test {}", producer.Int(123))
	if err != nil {
		log.Fatal(err)
	}

	noisy := append([]byte{0x01, 0x02, 0x03, 0x55, 0x00}, frame...)
	msg, ok, _, discarded := logwire.Parse(noisy)
	if !ok {
		log.Fatal("parse failed")
	}
	fmt.Printf("   rendered: %q, discarded %d noise bytes\n", msg, discarded)
}

// configExample loads host settings (or falls back to defaults when no
// file exists yet) and uses them to configure a consumer Framer's
// recursion-depth guard, the one setting a real deployment would tune
// per-host.
func configExample() {
	cfg, err := runtimeconfig.Load("/nonexistent/logwire-demo.yaml")
	if err != nil {
		log.Fatal(err)
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 16
	}

	framer, err := consumer.NewFramer(consumer.WithMaxDepth(cfg.MaxDepth))
	if err != nil {
		log.Fatal(err)
	}

	frame, err := logwire.Print("depth-bounded: {}", producer.Int(1))
	if err != nil {
		log.Fatal(err)
	}
	msg, ok, _, _ := framer.Next(frame)
	if !ok {
		log.Fatal("parse failed")
	}
	fmt.Printf("   max depth %d, rendered: %q\n", cfg.MaxDepth, msg)
}
