// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/packet"
	"github.com/bitmark-inc/ferryd/radio"
	"github.com/bitmark-inc/ferryd/upgrade"
)

const (
	queueSize          = 32
	minimumCleanup     = 10 * time.Millisecond
	defaultRate        = 1.0
	defaultBurst       = 1
	inProgress         = "in progress"
	negotiationSuccess = "success"
	negotiationFailure = "failure"
)

// Configuration - zero values select the defaults
type Configuration struct {
	Rate           float64 // negotiations per second
	Burst          int
	Cooldown       time.Duration
	FailedCooldown time.Duration
	Timeouts       upgrade.Timeouts
}

// Loop - background process that turns peer events into negotiations
type Loop struct {
	log            *logger.L
	transport      radio.Transport
	local          *packet.Advertise
	bootstrapper   upgrade.Bootstrapper
	timeouts       upgrade.Timeouts
	limiter        *rate.Limiter
	cooldowns      *cache.Cache
	cooldown       time.Duration
	failedCooldown time.Duration

	queue   chan radio.Peer
	expired chan string

	sync.Mutex
	attempts  int
	successes int
}

// New - create the loop, local is advertised to every peer
func New(transport radio.Transport, local *packet.Advertise, bootstrapper upgrade.Bootstrapper, configuration Configuration) *Loop {
	if configuration.Rate <= 0 {
		configuration.Rate = defaultRate
	}
	if configuration.Burst <= 0 {
		configuration.Burst = defaultBurst
	}
	if configuration.Cooldown <= 0 {
		configuration.Cooldown = constants.PeerCooldown
	}
	if configuration.FailedCooldown <= 0 {
		configuration.FailedCooldown = constants.PeerFailedCooldown
	}

	cleanup := configuration.FailedCooldown / 2
	if cleanup < minimumCleanup {
		cleanup = minimumCleanup
	}

	l := &Loop{
		log:            logger.New("discovery"),
		transport:      transport,
		local:          local,
		bootstrapper:   bootstrapper,
		timeouts:       configuration.Timeouts,
		limiter:        rate.NewLimiter(rate.Limit(configuration.Rate), configuration.Burst),
		cooldowns:      cache.New(cache.NoExpiration, cleanup),
		cooldown:       configuration.Cooldown,
		failedCooldown: configuration.FailedCooldown,
		queue:          make(chan radio.Peer, queueSize),
		expired:        make(chan string, queueSize),
	}
	l.cooldowns.OnEvicted(func(id string, _ interface{}) {
		select {
		case l.expired <- id:
		default:
		}
	})
	return l
}

// Counts - negotiations started and negotiations that completed
func (l *Loop) Counts() (int, int) {
	l.Lock()
	defer l.Unlock()
	return l.attempts, l.successes
}

// Run - background process
func (l *Loop) Run(args interface{}, shutdown <-chan struct{}) {
	log := l.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.negotiate(ctx)
	}()

	connected := make(map[string]radio.Peer)
	events := l.transport.Events()
loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-events:
			if !ok {
				break loop
			}
			id := event.Peer.ID()
			log.Debugf("event: %s  peer: %s", event.Kind, id)
			switch event.Kind {
			case radio.Connected:
				connected[id] = event.Peer
				l.schedule(event.Peer)
			case radio.Disconnected:
				if connected[id] == event.Peer {
					delete(connected, id)
				}
			}

		case id := <-l.expired:
			if p, ok := connected[id]; ok {
				log.Debugf("cooldown expired: %s", id)
				l.schedule(p)
			}
		}
	}

	cancel()
	wg.Wait()
	log.Info("stopped")
}

// queue a peer unless it is queued, negotiating or cooling down
func (l *Loop) schedule(p radio.Peer) {
	id := p.ID()
	if err := l.cooldowns.Add(id, inProgress, cache.NoExpiration); nil != err {
		return
	}
	select {
	case l.queue <- p:
	default:
		l.log.Warnf("queue full, skip peer: %s", id)
		l.cooldowns.Set(id, negotiationFailure, jitter(l.failedCooldown))
	}
}

// one negotiation at a time
func (l *Loop) negotiate(ctx context.Context) {
	log := l.log
	for {
		var p radio.Peer
		select {
		case <-ctx.Done():
			return
		case p = <-l.queue:
		}

		if err := l.limiter.Wait(ctx); nil != err {
			return
		}

		l.Lock()
		l.attempts += 1
		l.Unlock()

		n := upgrade.New(p, l.local, l.bootstrapper, l.timeouts)
		err := n.Run(ctx)
		if nil != err {
			log.Infof("peer: %s  negotiation failed in: %s  error: %s", p.ID(), n.State(), err)
			l.cooldowns.Set(p.ID(), negotiationFailure, jitter(l.failedCooldown))
			continue
		}

		l.Lock()
		l.successes += 1
		l.Unlock()
		log.Infof("peer: %s  negotiation done", p.ID())
		l.cooldowns.Set(p.ID(), negotiationSuccess, l.cooldown)
	}
}

// d plus up to half of d, so two peers that failed against each other
// do not retry in step
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d)/2+1))
}
