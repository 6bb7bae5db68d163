// Command btsd is the BTS scheduler daemon: it loads configuration,
// brings up one Runtime holding every configured BTS/TRX, binds a CCCH
// scheduler on timeslot 0 of each TRX, and serves the telnet VTY until
// told to shut down.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/osmo-go/btssched/internal/btsconfig"
	"github.com/osmo-go/btssched/internal/btslog"
	"github.com/osmo-go/btssched/internal/cbch"
	"github.com/osmo-go/btssched/internal/fsm"
	"github.com/osmo-go/btssched/internal/l1sap"
	"github.com/osmo-go/btssched/internal/lchan"
	"github.com/osmo-go/btssched/internal/measlog"
	"github.com/osmo-go/btssched/internal/mframe"
	"github.com/osmo-go/btssched/internal/paging"
	"github.com/osmo-go/btssched/internal/power"
	"github.com/osmo-go/btssched/internal/runtime"
	"github.com/osmo-go/btssched/internal/sched"
	"github.com/osmo-go/btssched/internal/vty"
)

func main() {
	flags := btsconfig.ParseFlags(os.Args[1:])
	if flags.Help {
		return
	}

	cfg, err := btsconfig.Load(flags.ConfigPath)
	if err != nil {
		cfg = btsconfig.Defaults()
		fmt.Fprintf(os.Stderr, "btsd: %v, continuing with defaults\n", err)
	}
	cfg = btsconfig.Apply(cfg, flags)

	btslog.Init(os.Stderr, parseLevel(cfg.LogLevel))
	logger := btslog.For(btslog.CatNM)

	measWriter, err := measlog.NewWriter(cfg.MeasLogDir)
	if err != nil {
		logger.Error("measlog init failed", "err", err)
		os.Exit(1)
	}
	defer measWriter.Close()

	rt := runtime.New()
	site := rt.NewSite()
	schedulers := make([]*sched.Scheduler, 0, len(cfg.Bts))

	for _, btsCfg := range cfg.Bts {
		btsID := rt.NewBts(site)
		for _, trxCfg := range btsCfg.Trx {
			trxID := rt.NewTrx(btsID)
			layout := mframe.LayoutCCCHComb()
			tsID := rt.NewTimeslot(trxID, 0, runtime.PhysCCCHComb, layout)

			s := sched.NewScheduler(layout, 0)
			s.AgchQueue = paging.NewQueue()
			s.AgchQueue.SetMaxLength(paging.MaxQueueLength(9, true))
			s.CbchSched = cbch.NewScheduler()

			cID := rt.NewLchan(tsID, lchan.ChanCCCH)
			s.Bind(mframe.CCCH, rt.Lchan(cID))

			band := power.BandByName(trxCfg.Band)
			maxLvl := band.Level(trxCfg.MaxPowerDbm)
			msParams := power.DefaultMsLoopParams(band, trxCfg.MaxPowerDbm-10, 4)
			rt.SetMsLoop(cID, power.NewMsLoop(msParams, maxLvl, maxLvl))
			bsParams := power.AttenLoopParams{TargetDbm: trxCfg.MaxPowerDbm - 10, HysteresisDb: 4, IncStepMaxDb: 4, RedStepMaxDb: 8, MaxAttenDb: 30}
			rt.SetBsLoop(cID, power.NewBsLoop(bsParams, 0))

			schedulers = append(schedulers, s)
			go drainPrims(s.Prims, measWriter, logger)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	status := &daemonStatus{schedulers: schedulers}
	vtyServer := vty.NewServer(fmt.Sprintf(":%d", cfg.VtyPort), status)
	go func() {
		if err := vtyServer.Serve(ctx); err != nil {
			logger.Error("vty server stopped", "err", err)
		}
	}()

	btsName := "btssched"
	if len(cfg.Bts) > 0 && cfg.Bts[0].Name != "" {
		btsName = cfg.Bts[0].Name
	}
	if err := vty.Advertise(ctx, btsName, cfg.VtyPort); err != nil {
		logger.Warn("dnssd advertisement failed", "err", err)
	}

	logger.Info("btsd up", "vty_port", cfg.VtyPort, "bts_count", len(cfg.Bts))

	shutdown := &fsm.Shutdown{}
	<-ctx.Done()
	logger.Info("shutdown requested")
	shutdown.Start(len(schedulers))
	vtyServer.Close()
	for _, s := range schedulers {
		s.Prims.Close()
	}
}

func drainPrims(q *l1sap.Queue, mw *measlog.Writer, logger *log.Logger) {
	for {
		p, ok := q.Pop()
		if !ok {
			return
		}
		if p.Type == l1sap.MphInfoMeas {
			row := measlog.Row{Time: timeNow(), ChanNr: p.ChanNr}
			if err := mw.Write(row); err != nil {
				logger.Error("measlog write failed", "err", err)
			}
			continue
		}
		logger.Debug("l1sap prim", "type", p.Type, "chan_nr", p.ChanNr, "fn", p.Fn)
	}
}

func timeNow() time.Time { return time.Now().UTC() }

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

type daemonStatus struct {
	schedulers []*sched.Scheduler
}

func (d *daemonStatus) ShowQueues() string {
	var b strings.Builder
	for i, s := range d.schedulers {
		fmt.Fprintf(&b, "trx[%d]: agch=%d cbch_pending=%d rejected=%d merged=%d\r\n",
			i, s.AgchQueue.Len(), 0, s.AgchQueue.Rejected(), s.AgchQueue.Merged())
	}
	if len(d.schedulers) == 0 {
		return "no timeslots configured\r\n"
	}
	return b.String()
}

func (d *daemonStatus) ShowLchans() string {
	return fmt.Sprintf("%d timeslot scheduler(s) bound\r\n", len(d.schedulers))
}

func (d *daemonStatus) ShowVersion() string {
	return "btssched dev\r\n"
}
