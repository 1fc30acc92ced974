package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/powerbank/app"
	"github.com/kilianp07/powerbank/config"
	"github.com/kilianp07/powerbank/infra/logger"
)

var (
	onceRecharge float64
	onceDrain    float64
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Apply a single recharge or drain and report the result",
	RunE:  runOnce,
}

func init() {
	onceCmd.Flags().Float64Var(&onceRecharge, "recharge", 0, "amount to recharge")
	onceCmd.Flags().Float64Var(&onceDrain, "drain", 0, "amount to drain")
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	if (onceRecharge > 0) == (onceDrain > 0) {
		return fmt.Errorf("exactly one of --recharge or --drain must be positive")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("once-command")
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	bat := svc.Battery()
	if onceRecharge > 0 {
		if err := bat.TryRecharge(onceRecharge); err != nil {
			return fmt.Errorf("recharge %v: %w", onceRecharge, err)
		}
		logg.Infof("recharged to %v/%v", bat.Charge(), bat.Capacity())
		return nil
	}
	if err := bat.TryDrain(onceDrain); err != nil {
		return fmt.Errorf("drain %v: %w", onceDrain, err)
	}
	logg.Infof("drained to %v/%v", bat.Charge(), bat.Capacity())
	return nil
}
