package client

import (
	"github.com/sirupsen/logrus"

	"keeper-client/internal/world"
	"keeper-client/pkg/logger"
)

// ReplayResult - итог прогона записи.
type ReplayResult struct {
	Frames   int
	Rejected int
	Turns    int
}

// Replay прогоняет записанные кадры через диспетчер над готовой репликой.
// Ответы серверу выбрасываются, звук и чат отключены. Реплике нужен локальный игрок.
func Replay(replica *world.Replica, nick string, frames [][]byte) ReplayResult {
	d := NewDispatcher(replica, DiscardSender{}, NopAudio{}, NopChat{}, nick)
	log := logger.Component("replay")

	var res ReplayResult
	for _, body := range frames {
		res.Frames++
		newTurn, err := d.ProcessOne(body)
		if err != nil {
			res.Rejected++
		}
		if newTurn {
			res.Turns++
		}
	}

	log.WithFields(logrus.Fields{
		"frames":   res.Frames,
		"rejected": res.Rejected,
		"turns":    res.Turns,
		"turn":     replica.Turn(),
	}).Info("Replay finished")
	return res
}
