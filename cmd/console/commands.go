// cmd/console/commands.go
package main

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/quantai/console/internal/app"
	"github.com/quantai/console/internal/export"
	"github.com/quantai/console/internal/view"
)

// runCommand executes one gateway call. State containers are not touched:
// they only change when a corresponding stream event arrives.
func runCommand(ctx context.Context, a *app.App, logger *zap.Logger, cmd string, args []string) error {
	switch cmd {
	case "start":
		cycles, interval := 1, 60
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid cycle count %q", args[0])
			}
			cycles = n
		}
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid interval %q", args[1])
			}
			interval = n
		}
		ack, err := a.Gateway.Start(ctx, cycles, interval)
		if err != nil {
			return err
		}
		fmt.Println(ack.Message)

	case "stop":
		ack, err := a.Gateway.Stop(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ack.Message)

	case "cycle":
		ack, err := a.Gateway.RunCycle(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ack.Message)

	case "status":
		status, err := a.Gateway.GetStatus(ctx)
		if err != nil {
			return err
		}
		running := "stopped"
		if status.IsRunning {
			running = "running"
		}
		fmt.Printf("%s on %s | wallet %s | cycles %d\n",
			running, status.Network, status.WalletAddress, status.CycleCount)

	case "portfolio":
		data, err := a.Gateway.GetPortfolio(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("total $%.2f | pnl $%.2f (%s) | daily $%.2f\n",
			data.TotalValue, data.TotalPnL, view.PortfolioTrend(data), data.DailyPnL)
		for _, alloc := range view.Allocations(data.Positions) {
			fmt.Printf("  %-8s $%.2f (%.1f%%)\n", alloc.Token, alloc.Value, alloc.Percent)
		}

	case "trades":
		trades, err := a.Gateway.GetTrades(ctx)
		if err != nil {
			return err
		}
		for _, t := range trades {
			fmt.Printf("%-10s %-4s %-8s %.4f @ %.6f [%s]\n",
				t.ID, t.Side, t.Token, t.Amount, t.EntryPrice, t.Status)
		}

	case "agents":
		infos, err := a.Gateway.GetAgents(ctx)
		if err != nil {
			return err
		}
		for _, info := range infos {
			badge := a.Agents.Badge(info.Name)
			fmt.Printf("%s — %s\n", badge.Render(), info.Description)
		}

	case "history":
		history, err := a.Gateway.GetHistory(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d trades: %d completed, %d failed\n",
			history.TotalTrades, history.SuccessfulTrades, history.FailedTradesCount)
		for _, t := range history.CompletedTrades {
			fmt.Printf("  ✓ %-10s %-8s pnl $%.2f\n", t.ID, t.Token, t.PnL)
		}
		for _, t := range history.FailedTrades {
			fmt.Printf("  ✗ %-10s %-8s\n", t.ID, t.Token)
		}

	case "config":
		backendCfg, err := a.Gateway.GetConfig(ctx)
		if err != nil {
			return err
		}
		for key, value := range backendCfg {
			fmt.Printf("%-30s %v\n", key, value)
		}

	case "reset":
		ack, err := a.Gateway.Reset(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ack.Message)

	case "export":
		format := export.FormatCSV
		if len(args) > 0 {
			format = export.Format(args[0])
		}
		outDir := "."
		if len(args) > 1 {
			outDir = args[1]
		}
		trades, err := a.Gateway.GetTrades(ctx)
		if err != nil {
			return err
		}
		exporter := export.NewExporter(logger)
		path, err := exporter.Export(trades, export.Options{Format: format, OutputDir: outDir})
		if err != nil {
			return err
		}
		fmt.Println("exported to", path)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
