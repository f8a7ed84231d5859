package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"
)

const usage = `usage: brokerctl <command> [flags]

commands:
  buy       -trader <id> -equity <id> -quantity <n> [-time RFC3339]
  sell      -trader <id> -equity <id> -quantity <n> [-time RFC3339]
  addfunds  -trader <id> -amount <n>
  trader    -id <id>
  traders
  equity    -id <id>
  equities

Set BROKER_URL to target a non-default server (default http://localhost:8080).
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("BROKER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	client := NewClient(baseURL)

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "buy":
		err = runTradeCommand(cmd, args, client.BuyEquity)
	case "sell":
		err = runTradeCommand(cmd, args, client.SellEquity)
	case "addfunds":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		trader := fs.Int("trader", 0, "trader id")
		amount := fs.Float64("amount", 0, "amount to deposit")
		fs.Parse(args)
		if err = client.AddFunds(*trader, *amount); err == nil {
			fmt.Println("ok")
		}
	case "trader":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "trader id")
		fs.Parse(args)
		err = fetch(func() (any, error) { return client.GetTrader(*id) })
	case "traders":
		err = fetch(func() (any, error) { return client.ListTraders() })
	case "equity":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int("id", 0, "equity id")
		fs.Parse(args)
		err = fetch(func() (any, error) { return client.GetEquity(*id) })
	case "equities":
		err = fetch(func() (any, error) { return client.ListEquities() })
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "brokerctl: %v\n", err)
		os.Exit(1)
	}
}

func runTradeCommand(name string, args []string, op func(traderID, equityID, quantity int, at time.Time) error) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	trader := fs.Int("trader", 0, "trader id")
	equity := fs.Int("equity", 0, "equity id")
	quantity := fs.Int("quantity", 0, "quantity of units")
	when := fs.String("time", "", "operation time (RFC3339, default now)")
	fs.Parse(args)

	at := time.Now()
	if *when != "" {
		parsed, err := time.Parse(time.RFC3339, *when)
		if err != nil {
			return fmt.Errorf("invalid -time: %w", err)
		}
		at = parsed
	}

	if err := op(*trader, *equity, *quantity, at); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func fetch(get func() (any, error)) error {
	result, err := get()
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
