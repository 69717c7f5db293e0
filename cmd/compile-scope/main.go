// Утилита отладки: компилирует Scope из JSON в условие политики.
// Печатает то, что уйдёт на платформу кастодиана, без сетевых вызовов.
//
//	go run ./cmd/compile-scope -agent trading-bot-01 < scope.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/vbncursed/vkr/delegation-service/internal/condition"
	"github.com/vbncursed/vkr/delegation-service/internal/models"
)

func main() {
	agentID := flag.String("agent", "", "agent id for the consensus rule")
	trading := flag.String("trading", "", "trading account address")
	storage := flag.String("storage", "", "long-term storage account address")
	at := flag.Int64("at", 0, "requestedAt as unix seconds (default: now)")
	file := flag.String("f", "-", "scope JSON file, '-' for stdin")
	flag.Parse()

	var in io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatalf("open: %v", err)
		}
		defer f.Close()
		in = f
	}

	var scope models.Scope
	dec := json.NewDecoder(in)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&scope); err != nil {
		log.Fatalf("scope: %v", err)
	}
	if err := scope.Validate(); err != nil {
		log.Fatalf("scope: %v", err)
	}

	requestedAt := time.Now().UTC()
	if *at != 0 {
		requestedAt = time.Unix(*at, 0).UTC()
	}

	c := condition.NewCompiler()
	cond := c.Compile(scope, condition.Context{
		TradingAddress: *trading,
		StorageAddress: *storage,
	}, requestedAt)

	fmt.Println("condition:")
	fmt.Println("  " + cond)
	if *agentID != "" {
		fmt.Println("consensus:")
		fmt.Println("  " + condition.ConsensusRule(*agentID))
	}
	fmt.Printf("expires at: %s\n", requestedAt.Add(time.Duration(scope.DurationSeconds)*time.Second).Format(time.RFC3339))
}
