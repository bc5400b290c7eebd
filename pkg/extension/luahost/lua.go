// Package luahost runs a user-provided Lua script against the extension
// points of the clipping pipeline.  Event payloads cross the Go/Lua boundary
// as JSON-shaped tables.
package luahost

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mailclip/mailclip/pkg/config"
	"github.com/mailclip/mailclip/pkg/extension"
	"github.com/mailclip/mailclip/pkg/extension/event"
	"github.com/mailclip/mailclip/pkg/record"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Global function names the script may define.
const (
	beforeMailSaveFn = "before_mail_save"
	beforeBillSaveFn = "before_bill_save"
	afterPageSavedFn = "after_page_saved"
)

// Host of Lua extensions.
type Host struct {
	Functions []string // Functions detected in lua script.
	pool      *statePool
	logger    zerolog.Logger
}

// New constructs a new Lua Host, pre-compiling the source.  Returns nil
// without error when no script is configured or present.
func New(conf config.Lua, extHost *extension.Host) (*Host, error) {
	scriptPath := conf.Path
	if scriptPath == "" {
		return nil, nil
	}

	logger := log.With().Str("module", "lua").Str("path", scriptPath).Logger()

	if fi, err := os.Stat(scriptPath); err != nil {
		logger.Info().Msg("Script file not found")
		return nil, nil
	} else if fi.IsDir() {
		return nil, fmt.Errorf("Lua script %v is a directory", scriptPath)
	}

	logger.Info().Msg("Loading script")
	file, err := os.Open(scriptPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return NewFromReader(extHost, bufio.NewReader(file), scriptPath)
}

// NewFromReader constructs a new Lua Host, loading Lua source from the
// provided reader.  The provided path is used in logging and error messages.
func NewFromReader(extHost *extension.Host, r io.Reader, path string) (*Host, error) {
	logger := log.With().Str("module", "lua").Str("path", path).Logger()

	// Pre-parse, and compile script.
	chunk, err := parse.Parse(r, path)
	if err != nil {
		return nil, err
	}
	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	// Build the pool and confirm LState is retrievable.
	pool := newStatePool(logger, proto)
	h := &Host{pool: pool, logger: logger}
	ls, err := pool.getState()
	if err != nil {
		return nil, err
	}
	h.wireEvents(ls, extHost)
	pool.putState(ls)

	return h, nil
}

// wireEvents registers a listener for each event function the script defines.
func (h *Host) wireEvents(ls *lua.LState, extHost *extension.Host) {
	if ls.GetGlobal(beforeMailSaveFn).Type() == lua.LTFunction {
		h.Functions = append(h.Functions, beforeMailSaveFn)
		extHost.Events.BeforeMailSaved.AddListener("lua",
			func(sub record.MailSubmission) *record.MailSubmission {
				return callRewrite(h, beforeMailSaveFn, sub)
			})
	}
	if ls.GetGlobal(beforeBillSaveFn).Type() == lua.LTFunction {
		h.Functions = append(h.Functions, beforeBillSaveFn)
		extHost.Events.BeforeBillSaved.AddListener("lua",
			func(sub record.BillSubmission) *record.BillSubmission {
				return callRewrite(h, beforeBillSaveFn, sub)
			})
	}
	if ls.GetGlobal(afterPageSavedFn).Type() == lua.LTFunction {
		h.Functions = append(h.Functions, afterPageSavedFn)
		extHost.Events.AfterPageSaved.AddListener("lua",
			func(ev event.SaveRecord) {
				callNotify(h, afterPageSavedFn, ev)
			})
	}
}

// CreateChannel creates a channel and places it into the named global variable
// in newly created LStates.
func (h *Host) CreateChannel(name string) chan lua.LValue {
	return h.pool.createChannel(name)
}

// callRewrite invokes the named script function with v as a table and decodes
// a returned table back into T.  A nil or missing return leaves the original
// value in effect; script errors are logged and treated the same way.
func callRewrite[T any](h *Host, fn string, v T) *T {
	ret, ok := call(h, fn, v, 1)
	if !ok || ret == lua.LNil {
		return nil
	}

	encoded, err := luaEncode(ret)
	if err != nil {
		h.logger.Error().Str("function", fn).Err(err).Msg("Failed to encode script result")
		return nil
	}
	out := new(T)
	if err := json.Unmarshal(encoded, out); err != nil {
		h.logger.Error().Str("function", fn).Err(err).Msg("Script result does not match event shape")
		return nil
	}
	return out
}

// callNotify invokes the named script function with v as a table, discarding
// any result.
func callNotify[T any](h *Host, fn string, v T) {
	call(h, fn, v, 0)
}

// call runs one script function with a JSON-shaped argument, returning the
// single result when nret is 1.
func call[T any](h *Host, fn string, v T, nret int) (lua.LValue, bool) {
	ls, err := h.pool.getState()
	if err != nil {
		h.logger.Error().Str("function", fn).Err(err).Msg("Failed to obtain Lua state")
		return nil, false
	}
	defer h.pool.putState(ls)

	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error().Str("function", fn).Err(err).Msg("Failed to encode event")
		return nil, false
	}
	arg, err := luaDecode(ls, data)
	if err != nil {
		h.logger.Error().Str("function", fn).Err(err).Msg("Failed to build event table")
		return nil, false
	}

	if err := ls.CallByParam(lua.P{
		Fn:      ls.GetGlobal(fn),
		NRet:    nret,
		Protect: true,
	}, arg); err != nil {
		h.logger.Error().Str("function", fn).Err(err).Msg("Script function failed")
		return nil, false
	}

	if nret == 0 {
		return nil, true
	}
	ret := ls.Get(-1)
	ls.Pop(1)
	return ret, true
}
