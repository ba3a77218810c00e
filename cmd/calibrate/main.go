// Command calibrate trains the confidence calibrator offline from a JSON
// file of labeled samples and writes the model artifact.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/wahajaslm/tarco/internal/calibrate"
)

func main() {
	samplesPath := flag.String("samples", "", "path to labeled samples JSON")
	outPath := flag.String("out", "models/calibrator.json", "path for the model artifact")
	epochs := flag.Int("epochs", 500, "gradient descent epochs")
	learningRate := flag.Float64("lr", 0.1, "learning rate")
	flag.Parse()

	if *samplesPath == "" {
		log.Fatal("usage: calibrate -samples <samples.json> [-out <artifact.json>]")
	}

	data, err := os.ReadFile(*samplesPath)
	if err != nil {
		log.Fatalf("failed to read samples: %v", err)
	}

	var samples []calibrate.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		log.Fatalf("failed to decode samples: %v", err)
	}

	model, err := calibrate.Fit(samples, *epochs, *learningRate)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	calibrator := calibrate.New(0, 0)
	if err := calibrator.SetModel(model); err != nil {
		log.Fatalf("invalid trained model: %v", err)
	}
	if err := calibrator.Save(*outPath); err != nil {
		log.Fatalf("failed to write artifact: %v", err)
	}

	log.Printf("trained calibrator on %d samples, artifact written to %s", len(samples), *outPath)
}
