// Package netutil provides network helpers for the provisioner.
package netutil

import (
	"fmt"
	"net"
)

// probeAddress is only used for routing-table resolution; no packets are
// sent on a UDP "connection".
const probeAddress = "8.8.8.8:80"

// Dialer matches net.Dial, injectable for tests.
type Dialer func(network, address string) (net.Conn, error)

// OutboundIP resolves the host's primary IPv4 address by asking the kernel
// which source address it would use for an outbound datagram. Falls back to
// scanning interfaces when the host has no default route.
func OutboundIP(dial Dialer) (string, error) {
	if dial == nil {
		dial = net.Dial
	}

	conn, err := dial("udp", probeAddress)
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String(), nil
		}
	}

	return interfaceIP()
}

func interfaceIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("failed to list interfaces: %w", err)
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", fmt.Errorf("no non-loopback IPv4 address found")
}
