/*
 * main.go, part of gonets.
 *
 * Copyright 2025 Raul Mera <rmeraaatacademicosdotutadotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * gonets is developed at the Universidad de Tarapaca (UTA)
 *
 */

//CrystalNets is the command-line front end of gonets: it identifies
//the topology of a crystal file (or a raw genome string) against an
//archive of known nets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	nets "github.com/rmera/gonets"
)

const usageText = `usage: CrystalNets [-a ARCHIVE] [-c TYPE] (FILE | -g GENOME)

Identify the topology of the net in FILE (a CIF file, possibly .gz or
.zst compressed), or of the periodic graph given directly with -g.
Prints the recognized identifier, or UNKNOWN when the archive has no
entry for it; the canonical genome is then reported on stderr unless
warnings are silenced.

options:
  -g, --genome GENOME    look up a genome string instead of a file
  -a, --archive PATH     archive to match against (default: built-in)
  -c, --clustering TYPE  structure type: auto, mof, cluster, zeolite,
                         guess or atom (default: auto)
      --no-warnings      silence the diagnostic stream
  -h, --help             this message

environment:
  CRYSTALNETS_ARCHIVE    default archive path
  CRYSTALNETS_WARNINGS   set to false to silence warnings
`

func main() {
	os.Exit(run())
}

func run() int {
	exit := 0
	cmd := newRootCmd(&exit)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "CrystalNets: %v\n", err)
		if exit < 2 {
			exit = 2
		}
	}
	return exit
}

func newRootCmd(exit *int) *cobra.Command {
	var genome, archivePath, structure string
	var noWarnings bool

	cmd := &cobra.Command{
		Use:           "CrystalNets",
		Short:         "identify the topology of a crystal net",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			v.SetEnvPrefix("crystalnets")
			v.AutomaticEnv()
			v.SetDefault("warnings", true)
			if err := v.BindPFlag("archive", cmd.Flags().Lookup("archive")); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			warnings := v.GetBool("warnings") && !noWarnings
			logger := zap.NewNop()
			if warnings {
				enc := zap.NewDevelopmentEncoderConfig()
				core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc),
					zapcore.Lock(os.Stderr), zap.WarnLevel)
				logger = zap.New(core)
			}
			defer logger.Sync()

			archive, err := loadArchive(ctx, v.GetString("archive"))
			if err != nil {
				return err
			}

			var res *nets.Result
			switch {
			case genome != "":
				res, err = nets.LookupGenome(ctx, genome, archive)
			case len(args) == 1:
				var crystal *nets.Crystal
				crystal, err = nets.ReadCIFFile(args[0])
				if err != nil {
					return err
				}
				st, terr := nets.ParseStructureType(structure)
				if terr != nil {
					return terr
				}
				opts := nets.DefaultOptions()
				opts.Structure(st)
				opts.Logger(logger)
				res, err = nets.Identify(ctx, crystal, archive, opts)
			default:
				return fmt.Errorf("need a file argument or -g (see --help)")
			}
			if err != nil {
				return err
			}

			if len(res.Subnets) > 1 {
				for _, sub := range res.Subnets {
					fmt.Println(sub.Name)
				}
			}
			fmt.Println(res.Name)
			if !res.Recognized() {
				logger.Warn("net not in the archive", zap.String("genome", res.Genome))
				*exit = 1
			}
			return nil
		},
	}
	cmd.SetUsageTemplate(usageText)
	cmd.SetHelpTemplate(usageText)
	cmd.Flags().StringVarP(&genome, "genome", "g", "", "genome string to look up")
	cmd.Flags().StringVarP(&archivePath, "archive", "a", "", "archive path")
	cmd.Flags().StringVarP(&structure, "clustering", "c", "auto", "structure type")
	cmd.Flags().BoolVar(&noWarnings, "no-warnings", false, "silence warnings")
	return cmd
}

func loadArchive(ctx context.Context, path string) (*nets.Archive, error) {
	if path == "" {
		return nets.DefaultArchive(ctx)
	}
	return nets.LoadArchive(ctx, path)
}
