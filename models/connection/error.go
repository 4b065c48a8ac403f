package connection

import (
	"errors"
	"fmt"
)

// Outcomes of a failed read or write on a session connection. They tell
// the session loop whether to retry, wait for the client or give up.
const (
	ConnLoopBreak uint8 = iota
	ConnLoopRetry
	ConnLoopAbnormalClosureRetry
	ConnLoopContinue
	ConnLoopPassThrough
	ConnInvalidMsgType
)

type ConnErr struct {
	code uint8
	desc string
}

func NewConnErr(code uint8) ConnErr {
	return ConnErr{code: code}
}

func (c ConnErr) AddDesc(desc string) ConnErr {
	c.desc = desc
	return c
}

func (c ConnErr) Error() string {
	if c.desc == "" {
		return fmt.Sprintf("connection error - code: %d", c.code)
	}
	return fmt.Sprintf("connection error - code: %d\tdesc: %s", c.code, c.desc)
}

func (c ConnErr) Code() uint8 {
	return c.code
}

// ConnErrCode unwraps err down to a ConnErr and returns its code.
func ConnErrCode(err error) (uint8, bool) {
	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return 0, false
	}
	return connErr.code, true
}
