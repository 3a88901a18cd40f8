package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MatrixEditor/hiktools/internal/config"
	"github.com/MatrixEditor/hiktools/internal/daemon"
	"github.com/MatrixEditor/hiktools/internal/logging"
	"github.com/MatrixEditor/hiktools/internal/netif"
	"github.com/MatrixEditor/hiktools/internal/rawsock"
	"github.com/MatrixEditor/hiktools/internal/sadp"
)

var (
	flagConfig    string
	flagInterface string
	flagWindow    int
)

func init() {
	scanCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML config file")
	scanCmd.Flags().StringVarP(&flagInterface, "interface", "i", "", "interface to scan on")
	scanCmd.Flags().IntVarP(&flagWindow, "window", "w", 0, "seconds to collect responses")

	rootCmd.Flags().AddFlagSet(scanCmd.Flags())
}

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List the interfaces SADP frames can be sourced from",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.InitializeFromEnv(); err != nil {
			return err
		}
		defer logging.Sync()

		interfaces := netif.NewRegistry().List()
		if len(interfaces) == 0 {
			fmt.Println("No usable interfaces found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tNAME\tMAC\tIPV4\tIPV6")
		for i := range interfaces {
			iface := &interfaces[i]
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				iface.Index, iface.Name, iface.MAC, iface.IPv4, iface.IPv6)
		}
		return w.Flush()
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Broadcast an inquiry and print answering devices",
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagInterface != "" {
		cfg.Interface = flagInterface
	}
	if flagWindow > 0 {
		cfg.ScanWindowSeconds = flagWindow
	}

	if err := logging.Initialize(cfg.LogLevel); err != nil {
		return err
	}
	defer logging.Sync()

	iface, err := selectInterface(cfg.Interface)
	if err != nil {
		return err
	}
	fmt.Printf("Scanning on %s\n", iface)

	sock := rawsock.New()
	if err := sock.Create(iface, cfg.EtherType); err != nil {
		return err
	}
	defer sock.Close()
	if err := sock.Bind(); err != nil {
		return err
	}

	counter := sadp.NewRandomCounter()
	if cfg.CounterSeed != 0 {
		counter.Set(cfg.CounterSeed)
	}

	d := daemon.New(sock)
	d.AddListener(&devicePrinter{})
	d.Start()

	pkt, err := sadp.NewBuilder(counter).BuildInquiry(iface)
	if err != nil {
		return err
	}
	if _, err := sock.Send(pkt.WireBytes()); err != nil {
		return err
	}

	time.Sleep(cfg.ScanWindow())

	d.Stop()
	sock.Close()
	d.Wait()
	return nil
}

// selectInterface picks the named interface, or the first non-loopback one
// when no name was configured.
func selectInterface(name string) (*netif.Interface, error) {
	interfaces := netif.NewRegistry().List()
	if len(interfaces) == 0 {
		return nil, fmt.Errorf("no usable interfaces found (is /proc/net/if_inet6 available?)")
	}
	for i := range interfaces {
		iface := &interfaces[i]
		if name != "" {
			if iface.Name == name {
				return iface, nil
			}
			continue
		}
		if !iface.IsLoopback() {
			return iface, nil
		}
	}
	if name != "" {
		return nil, fmt.Errorf("interface %q not found", name)
	}
	return nil, fmt.Errorf("only loopback interfaces found")
}

// devicePrinter prints one line per SADP frame seen on the wire.
type devicePrinter struct{}

func (p *devicePrinter) OnPacketReceived(ev daemon.PacketEvent) {
	pkt := ev.Packet
	fmt.Printf("%s  %s %s  seq=%d  %s (%s)\n",
		time.Now().Format("15:04:05"),
		pkt.Kind, pkt.QueryName(), pkt.Sequence, pkt.SourceMAC, pkt.SourceIP)
}
