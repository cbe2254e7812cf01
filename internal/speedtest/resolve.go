package speedtest

import (
	"net"
	"net/url"
)

// tcpAddr wraps a resolved IP:port pair as a net.Addr usable by dial.
type tcpAddr struct {
	ip   net.IP
	port string
}

func (a tcpAddr) Network() string { return "tcp" }
func (a tcpAddr) String() string  { return net.JoinHostPort(a.ip.String(), a.port) }

// resolve looks up every A/AAAA record for u's host and returns the first
// one matching family: a linear scan that picks the first match, not the
// "best" one by any other criterion.
func resolve(u *url.URL, family Family) (net.Addr, error) {
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, newError(ConfigError, err)
	}

	for _, ip := range ips {
		isV4 := ip.To4() != nil
		if (family == FamilyV4 && isV4) || (family == FamilyV6 && !isV4) {
			return tcpAddr{ip: ip, port: port}, nil
		}
	}
	return nil, newError(ConfigError, errNoAddressForFamily)
}

var errNoAddressForFamily = &addressFamilyError{}

type addressFamilyError struct{}

func (*addressFamilyError) Error() string {
	return "no resolved address matches the requested address-family preference"
}
