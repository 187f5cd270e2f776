package main

import (
	"context"
	"fmt"
	"os"

	"github.com/denizgursoy/describe/internal/app"
)

func main() {
	if err := app.New().Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
