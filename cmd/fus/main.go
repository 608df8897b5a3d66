/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command fus runs one role of the shard daemon cluster — admin, auth or
// db — or generates the DH key material a [crypt] config section needs.
// Each role is its own process bound to its own lobby listener; operators
// run one binary per role, pointed at a shared configuration file.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hoikas/fus/account"
	"github.com/hoikas/fus/config"
	"github.com/hoikas/fus/console"
	"github.com/hoikas/fus/crypt"
	"github.com/hoikas/fus/daemon"
	"github.com/hoikas/fus/lobby"
	"github.com/hoikas/fus/version"
	"github.com/hoikas/fus/wire"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:     "fus",
		Short:   "run a shard daemon role or manage its key material",
		Version: version.New().String(),
	}
	root.PersistentFlags().StringVar(&configPath, "config", "fus.ini", "path to the ini configuration file")
	root.AddCommand(adminCmd(), authCmd(), dbCmd(), genKeysCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func adminCmd() *cobra.Command {
	var withConsole bool
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "run the admin daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			var admin *daemon.Admin
			return runPeerRole("admin", crypt.RoleAdmin, wire.ConnTypeCli2Admin,
				func(responder *crypt.Responder, dbAddr string, dbInitiator *crypt.Initiator, cli config.ClientConfig, log *logrus.Entry) route {
					admin = daemon.NewAdmin(responder, dbAddr, dbInitiator, cli, log)
					return admin
				},
				func() {
					if withConsole {
						go runConsole(adminConsole(admin))
					}
				})
		},
	}
	cmd.Flags().BoolVar(&withConsole, "console", false, "attach an interactive operator console on stdin")
	return cmd
}

// adminConsole builds the REPL an operator attaches to an admin process
// to push a wall broadcast without needing a game client connection.
func adminConsole(admin *daemon.Admin) *console.REPL {
	repl := console.NewREPL("admin> ")
	repl.Register(console.Command{
		Name: "wall",
		Help: "broadcast a message to every connected admin client",
		Run:  admin.Wall,
	})
	return repl
}

// runConsole drives repl off stdin for as long as the process runs;
// "quit" only ends the console loop, it does not stop the daemon.
func runConsole(repl *console.REPL) {
	if err := repl.Serve(os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
	}
}

func authCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "run the auth daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPeerRole("auth", crypt.RoleAuth, wire.ConnTypeCli2Auth,
				func(responder *crypt.Responder, dbAddr string, dbInitiator *crypt.Initiator, cli config.ClientConfig, log *logrus.Entry) route {
					return daemon.NewAuth(responder, dbAddr, dbInitiator, cli, log)
				}, nil)
		},
	}
}

func dbCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db",
		Short: "run the db daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDb()
		},
	}
}

func genKeysCmd() *cobra.Command {
	var bits int
	cmd := &cobra.Command{
		Use:   "genkeys <role>",
		Short: "generate DH key material for a role and save it into the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := crypt.Role(args[0])
			km, err := crypt.GenerateKeyMaterial(crypt.Generator(role), bits)
			if err != nil {
				return err
			}
			if err := config.Save(configPath, role, km); err != nil {
				return err
			}
			fmt.Printf("generated %d-bit key material for role %q in %s\n", bits, role, configPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 512, "modulus size in bits")
	return cmd
}

// route is the subset of Admin/Auth/Db that runPeerRole needs: a
// lobby.Route-compatible Accept method.
type route interface {
	Accept(ctx context.Context, conn net.Conn, connectData wire.Message)
}

// roleBuilder constructs a daemon wrapper around its handshake responder
// and the db client it needs to reach the db daemon.
type roleBuilder func(responder *crypt.Responder, dbAddr string, dbInitiator *crypt.Initiator, cli config.ClientConfig, log *logrus.Entry) route

func runPeerRole(role string, r crypt.Role, connType wire.ConnType, build roleBuilder, onBuilt func()) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := newLogger(role, cfg)

	cc, ok := cfg.Crypt[r]
	if !ok {
		return fmt.Errorf("no [crypt] %s_k/%s_n configured in %s", r, r, configPath)
	}
	responder := crypt.NewResponder(cc.N, cc.K)

	dbc, ok := cfg.Crypt[crypt.RoleDB]
	if !ok {
		return fmt.Errorf("no [crypt] db_k/db_n configured in %s", configPath)
	}
	dbInitiator := crypt.NewInitiator(dbc.G, dbc.N, dbc.X)
	dbAddr := net.JoinHostPort(cfg.DB.Addr, strconv.Itoa(int(cfg.DB.Port)))

	d := build(responder, dbAddr, dbInitiator, cfg.Client, log)
	if onBuilt != nil {
		onBuilt()
	}

	bindAddr := net.JoinHostPort(cfg.Lobby.BindAddr, strconv.Itoa(int(cfg.Lobby.Port)))
	disp, derr := lobby.NewDispatcher(bindAddr, cfg.Client.Verification, cfg.Client, log)
	if derr != nil {
		return derr
	}
	disp.RegisterRoute(connType, d.Accept)

	log.WithField("addr", bindAddr).Info("listening")
	return serve(disp)
}

func runDb() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := newLogger("db", cfg)

	cc, ok := cfg.Crypt[crypt.RoleDB]
	if !ok {
		return fmt.Errorf("no [crypt] db_k/db_n configured in %s", configPath)
	}
	responder := crypt.NewResponder(cc.N, cc.K)

	store, aerr := account.Open(cfg.DB.Engine, cfg.DB.DSN)
	if aerr != nil {
		return aerr
	}

	db := daemon.NewDb(responder, store, log)

	bindAddr := net.JoinHostPort(cfg.DB.Addr, strconv.Itoa(int(cfg.DB.Port)))
	disp, derr := lobby.NewDispatcher(bindAddr, cfg.Client.Verification, cfg.Client, log)
	if derr != nil {
		return derr
	}
	disp.RegisterRoute(wire.ConnTypeSrv2Database, db.Accept)

	log.WithField("addr", bindAddr).Info("listening")
	return serve(disp)
}

// serve runs disp.Serve until SIGINT/SIGTERM, then lets the dispatcher's
// two-phase shutdown drain already-dispatched connections.
func serve(disp *lobby.Dispatcher) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return disp.Serve(ctx)
}

func newLogger(role string, cfg *config.Config) *logrus.Entry {
	log := logrus.New()
	log.SetLevel(cfg.Log.Level.Logrus())
	return log.WithField("role", role)
}
