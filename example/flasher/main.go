// Command flasher runs the full GMLAN programming flow against an
// in-process simulated ECU: session initiation, keep-alive, security
// unlock, chunked payload download and read-back verification.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/openecutools/gmdiag/common"
	"github.com/openecutools/gmdiag/gmlan"
	"github.com/openecutools/gmdiag/transport/loopback"
)

const (
	seed      = 0x4A21
	loadAddr  = 0x00002000
	loadBytes = 6000
)

func keyFromSeed(seed uint16) uint16 {
	return seed ^ 0xFFFF
}

func main() {
	log := common.NewZapLogger(common.ZapOptions{Debug: true})

	ecu := loopback.NewSimulatedECU(seed, keyFromSeed(seed))
	node := loopback.New(ecu.Respond)
	allNodes := loopback.NewBroadcast(ecu.Respond)

	client := gmlan.New(gmlan.Config{
		AddressingScheme: 4,
		Logger:           log,
	})

	if err := client.InitDiagnostics(node, allNodes, 0, 3); err != nil {
		log.Error("session initiation failed", "error", err)
		os.Exit(1)
	}

	keepAlive := gmlan.NewTesterPresent(allNodes, nil, log)
	keepAlive.Start()
	defer keepAlive.Stop()

	if err := client.GetSecurityAccess(node, 1, keyFromSeed, 0, 3); err != nil {
		log.Error("security access failed", "error", err)
		os.Exit(1)
	}
	log.Info("security unlocked", "unlocked", client.SecurityUnlocked())

	payload := make([]byte, loadBytes)
	for i := range payload {
		payload[i] = byte(i)
	}
	if err := client.TransferPayload(node, loadAddr, payload, 0, 0, 3); err != nil {
		log.Error("download failed", "error", err)
		os.Exit(1)
	}
	log.Info("payload transferred", "address", fmt.Sprintf("0x%08X", loadAddr), "bytes", len(payload))

	readBack, err := client.ReadMemoryByAddress(node, loadAddr, 4090, 0, 3)
	if err != nil {
		log.Error("read-back failed", "error", err)
		os.Exit(1)
	}
	if !bytes.Equal(readBack, payload[:len(readBack)]) {
		log.Error("read-back mismatch", "bytes", len(readBack))
		os.Exit(1)
	}
	log.Info("read-back verified", "bytes", len(readBack))
}
