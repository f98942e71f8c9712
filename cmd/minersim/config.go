// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2023-2026 The Vouch developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
	"github.com/vouchnet/vouchd/chaincfg"
	"github.com/vouchnet/vouchd/mempool"
)

const (
	defaultTxCount     = 2000
	defaultRefRatio    = 0.25
	defaultChainLen    = 4
	defaultBlocks      = 10
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "minersim.log"
)

var (
	vouchdHomeDir   = btcutil.AppDataDir("vouchd", false)
	defaultDataDir  = filepath.Join(vouchdHomeDir, "minersim")
	activeNetParams = &chaincfg.MainNetParams
)

// config defines the configuration options for minersim.
//
// See loadConfig for details on the configuration load process.
type config struct {
	Blocks      uint32  `short:"n" long:"blocks" description:"Number of blocks to assemble"`
	ChainLen    int     `long:"chainlen" description:"Maximum depth of dependent transaction chains in the generated workload"`
	DataDir     string  `short:"b" long:"datadir" description:"Directory to store logs"`
	DebugLevel  string  `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	MinFeeRate  int64   `long:"minfeerate" description:"Minimum package fee rate in motes per kilobyte for template inclusion -- Use 0 to include free transactions"`
	RefRatio    float64 `long:"refratio" description:"Fraction of generated outputs that pay a brand new address and therefore require a referral"`
	Seed        int64   `short:"s" long:"seed" description:"Seed for the deterministic workload generator -- Use 0 to seed from the current time"`
	SimNet      bool    `long:"simnet" description:"Use the simulation test network"`
	Solve       bool    `long:"solve" description:"Solve the proof of work for each assembled block with the CPU miner"`
	TxCount     int     `short:"t" long:"txcount" description:"Number of transactions to generate per round"`
	WeightLimit uint32  `short:"w" long:"weightlimit" description:"Maximum block weight for generated templates -- Use 0 for the default"`
}

// loadConfig initializes and parses the config using command line options.
func loadConfig() (*config, error) {
	// Default config.
	cfg := config{
		Blocks:     defaultBlocks,
		ChainLen:   defaultChainLen,
		DataDir:    defaultDataDir,
		DebugLevel: defaultLogLevel,
		RefRatio:   defaultRefRatio,
		TxCount:    defaultTxCount,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, err
	}

	funcName := "loadConfig"
	if cfg.SimNet {
		activeNetParams = &chaincfg.SimNetParams
	}

	// The main network target is out of reach for a lone CPU, so solving
	// is only supported on the simulation network.
	if cfg.Solve && !cfg.SimNet {
		str := "%s: The --solve option requires --simnet since the " +
			"main network difficulty cannot be solved by the CPU " +
			"miner"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, err
	}

	if cfg.Blocks == 0 {
		str := "%s: The number of blocks must be greater than zero"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}
	if cfg.TxCount < 0 {
		str := "%s: The transaction count may not be negative"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}
	if cfg.RefRatio < 0 || cfg.RefRatio > 1 {
		str := "%s: The referral ratio must be between 0 and 1 -- " +
			"parsed [%v]"
		err := fmt.Errorf(str, funcName, cfg.RefRatio)
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}
	if cfg.ChainLen < 1 || cfg.ChainLen >= mempool.DefaultMaxAncestors {
		str := "%s: The chain length must be between 1 and %d -- " +
			"parsed [%v]"
		err := fmt.Errorf(str, funcName,
			mempool.DefaultMaxAncestors-1, cfg.ChainLen)
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}
	if cfg.MinFeeRate < 0 {
		str := "%s: The minimum fee rate may not be negative -- " +
			"parsed [%v]"
		err := fmt.Errorf(str, funcName, cfg.MinFeeRate)
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}

	// A zero seed selects one from the current time so repeated runs
	// differ unless a seed is pinned explicitly.
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	// Append the network type to the data directory so it is "namespaced"
	// per network.
	cfg.DataDir = filepath.Join(cfg.DataDir, activeNetParams.Name)

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	initLogRotator(filepath.Join(cfg.DataDir, defaultLogDirname,
		defaultLogFilename))

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("%s: %v", funcName, err.Error())
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, err
	}

	return &cfg, nil
}
