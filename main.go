/*
 * T990 - Main process.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/T990/command/reader"
	"github.com/rcornwell/T990/emu/core"
	"github.com/rcornwell/T990/emu/state"
	"github.com/rcornwell/T990/util/logger"
)

func main() {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optImage := getopt.StringLong("image", 'i', "", "Memory image to load")
	optAddr := getopt.StringLong("address", 'a', "0", "Load address for the image, > prefixes hex")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug output to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("unable to create log file: " + err.Error())
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	log := slog.New(logger.New(file, programLevel, *optDebug))
	slog.SetDefault(log)

	log.Info("T990 started")

	machine := state.NewState()
	if *optImage != "" {
		addr, err := parseAddress(*optAddr)
		if err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
		if err := loadImage(machine, *optImage, addr); err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
		log.Info("image loaded", "file", *optImage)
	}

	sim := core.NewCore(machine)
	go sim.StartLoop()

	reader.ConsoleReader(sim)

	log.Info("shutting down simulator")
	sim.Shutdown()
}

// Addresses follow the 990 convention: > prefixes hexadecimal.
func parseAddress(word string) (uint16, error) {
	base := 10
	if strings.HasPrefix(word, ">") {
		base = 16
		word = word[1:]
	}
	value, err := strconv.ParseUint(word, base, 16)
	if err != nil {
		return 0, errors.New("bad load address: " + word)
	}
	return uint16(value), nil
}

// Deposit a flat big endian image into memory starting at addr.
func loadImage(machine *state.State, name string, addr uint16) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	for i, b := range data {
		machine.Mem.PutByte(addr+uint16(i), b)
	}
	return nil
}
