package main

// Render a sample resume to PDF without the API:
//   go run ./cmd/renderdemo -out sample.pdf

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"resume-builder/internal/assemble"
	"resume-builder/internal/contact"
	"resume-builder/internal/render"
	"resume-builder/internal/shared/config"
)

const sampleBody = `<div class="resume-wrapper">
    <table class="header-table">
        <tr>
            <td class="info-cell">
                <h1>Jane Doe</h1>
                <p class="contact-info">+1 415-555-0100 | jane@example.com | linkedin.com/in/janedoe</p>
            </td>
        </tr>
    </table>
    <hr class="header-line">
    <div class="section">
        <h2>Professional Summary</h2>
        <p>Backend engineer with ten years of Go in production.</p>
    </div>
</div>`

func main() {
	out := flag.String("out", "sample.pdf", "output PDF path")
	flag.Parse()

	cfg := config.Load()
	assembler := assemble.NewInstantiator(contact.NewClassifier(cfg.AssetsDir))
	body := assembler.Instantiate(sampleBody, "")

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	renderer := render.NewChromeRenderer(cfg.ChromePath)
	pdf, err := renderer.RenderPDF(ctx, body)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("wrote %s (%d bytes)", *out, len(pdf))
}
