// Package bans keeps track of networks that may not connect to the server.
package bans

import (
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/sauerbraten/chef/pkg/ips"
	"github.com/sauerbraten/jsonfile"
	"github.com/sauerbraten/maitred/v2/pkg/protocol"
)

type BanManager struct {
	µ    sync.Mutex
	bans map[string]map[string]*Ban // domain -> cidr -> ban
}

func New(bans ...*Ban) *BanManager {
	bm := &BanManager{
		bans: map[string]map[string]*Ban{},
	}

	for _, ban := range bans {
		bm.addBan(ban)
	}

	return bm
}

// FromFile parses a JSON list of bans, which may contain // comments.
func FromFile(fileName string) ([]*Ban, error) {
	var bansFromFile []*Ban
	err := jsonfile.ParseFile(fileName, &bansFromFile)
	if err != nil {
		return nil, fmt.Errorf("reading bans from %s: %w", fileName, err)
	}

	return bansFromFile, nil
}

func (bm *BanManager) AddBan(network *net.IPNet, reason string, expiryDate time.Time, domain string) {
	bm.µ.Lock()
	defer bm.µ.Unlock()

	bm.addBan(&Ban{
		Network:    network,
		Reason:     reason,
		ExpiryDate: expiryDate,
		Domain:     domain,
	})
}

// not safe for concurrent use
func (bm *BanManager) addBan(ban *Ban) {
	bans, ok := bm.bans[ban.Domain]
	if !ok {
		bans = map[string]*Ban{}
		bm.bans[ban.Domain] = bans
	}
	bans[ban.Network.String()] = ban

	log.Println("added ban:", ban)
}

// ClearBans removes all bans of a domain.
func (bm *BanManager) ClearBans(domain string) {
	bm.µ.Lock()
	defer bm.µ.Unlock()

	delete(bm.bans, domain)
}

// GetBan returns the ban covering ip, if any. Expired bans are dropped on the way.
func (bm *BanManager) GetBan(ip net.IP) (ban *Ban, ok bool) {
	bm.µ.Lock()
	defer bm.µ.Unlock()

	now := time.Now()
	for _, bans := range bm.bans {
		for cidr, ban := range bans {
			if !ban.Network.Contains(ip) {
				continue
			}
			if ban.expired(now) {
				delete(bans, cidr)
				continue
			}
			return ban, true
		}
	}

	return nil, false
}

// Handle applies ban messages from a master server until inc is closed.
func (bm *BanManager) Handle(inc <-chan string) {
	for msg := range inc {
		cmd := strings.Split(msg, " ")[0]
		args := strings.TrimSpace(msg[len(cmd):])

		switch cmd {
		case protocol.ClearBans:
			bm.handleClearBans(args)

		case protocol.AddBan:
			bm.handleAddBan(args)

		default:
			log.Println("unhandled message in ban manager:", msg)
		}
	}
}

func (bm *BanManager) handleAddBan(args string) {
	var ip, domain string
	_, err := fmt.Sscanf(args, "%s %s", &ip, &domain)
	if err != nil {
		// domain is optional
		domain = ""
		if _, err = fmt.Sscanf(args, "%s", &ip); err != nil {
			log.Printf("malformed %s message from master server: '%s': %v", protocol.AddBan, args, err)
			return
		}
	}

	network := ips.GetSubnet(ip)
	if network == nil {
		log.Printf("malformed %s message from master server: '%s': invalid network", protocol.AddBan, args)
		return
	}

	reason := "gban"
	if domain != "" {
		reason += " from " + domain
	}
	bm.AddBan(network, reason, time.Time{}, masterDomain(domain))
}

func (bm *BanManager) handleClearBans(args string) {
	bm.ClearBans(masterDomain(strings.TrimSpace(args)))
}

// bans received from the master server are kept apart from local ones, so that the master can
// only clear its own
func masterDomain(domain string) string {
	return "master:" + domain
}
