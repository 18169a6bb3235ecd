// Smarthouse prints a status report for a small model of a house: rooms
// holding sockets, thermometers and pressure controllers.
//
// Without a house layout in the config file it runs the built-in demo,
// printing the report before and after switching a few devices.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"

	"github.com/elijahnyp/smarthouse/state"
	. "github.com/elijahnyp/smarthouse/util"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "smarthouse",
	Short: "Print the smart house status report",
	Long: `Print the status report of a smart house.

The house layout is read from the "house" key of the config file. When no
layout is configured the built-in demo house is used and its report is
printed twice, before and after switching some devices.

The report can also be published over MQTT (--publish) and served over
HTTP on /report and /api/house (--serve).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default smarthouse.yaml in ., ./config, /etc)")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error")
	flags.Bool("publish", false, "publish reports over MQTT")
	flags.Bool("serve", false, "serve the last report over HTTP until interrupted")

	_ = Config.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = Config.BindPFlag("mqtt.enabled", flags.Lookup("publish"))
	_ = Config.BindPFlag("monitor.enabled", flags.Lookup("serve"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// reporter sends every report to stdout and, when enabled, to the monitor
// server and the MQTT broker.
type reporter struct {
	out     io.Writer
	monitor *MonitorServer
	topic   string
}

func (r *reporter) report(house *state.SmartHouse) error {
	if _, err := fmt.Fprintln(r.out, house.Info()); err != nil {
		return err
	}
	if r.monitor != nil {
		r.monitor.SetSnapshot(TakeSnapshot(house))
	}
	if Client != nil {
		if err := PublishReport(Client, r.topic, house); err != nil {
			Logger.Error().Msgf("Error publishing report: %v", err)
		}
	}
	return nil
}

func run(ctx context.Context, out io.Writer) error {
	LogInit(Config.GetString("log_level"))
	if err := SetupConfig(configFile); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	LogInit(Config.GetString("log_level"))
	RegisterNewConfigListener(func() { LogInit(Config.GetString("log_level")) })

	var model HouseModel
	if err := model.BuildModel(); err != nil {
		return err
	}

	var house *state.SmartHouse
	var demo *Demo
	if model.Empty() {
		Logger.Debug().Msg("no house layout configured, using the demo house")
		demo = NewDemo()
		house = demo.House
	} else {
		built, devices, err := model.Build()
		if err != nil {
			return fmt.Errorf("house layout: %w", err)
		}
		Logger.Info().Msgf("house built: %d rooms, %d devices", len(built.Rooms()), len(devices))
		house = built
	}

	r := &reporter{out: out, topic: Config.GetString("mqtt.report_topic")}

	if Config.GetBool("monitor.enabled") {
		r.monitor = NewMonitorServer(Config.GetInt("monitor.port"))
		if err := r.monitor.Start(); err != nil {
			return err
		}
		RegisterNewConfigListener(func() {
			if err := r.monitor.Restart(Config.GetInt("monitor.port")); err != nil {
				Logger.Error().Msgf("Error restarting monitor server: %v", err)
			}
		})
	}

	if Config.GetBool("mqtt.enabled") {
		if Config.GetBool("mqtt.ha_advertise") {
			RegisterMQTTConnectHook("haadvertise", func(client MQTT.Client) {
				if err := AdvertiseHA(house.Rooms(), client, r.topic); err != nil {
					Logger.Error().Msgf("Error advertising to Home Assistant: %v", err)
				}
			})
		}
		if err := MqttInit(); err != nil {
			return err
		}
		defer func() {
			Client.Publish(OnlineTopic(), 0, true, "offline").Wait()
			Client.Disconnect(250)
			Client = nil
		}()
	}

	var err error
	if demo != nil {
		err = demo.Run(r.report)
	} else {
		err = r.report(house)
	}
	if err != nil {
		return err
	}

	if r.monitor != nil {
		Logger.Info().Msg("serving last report, interrupt to exit")
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return r.monitor.Stop(shutdownCtx)
	}
	return nil
}
