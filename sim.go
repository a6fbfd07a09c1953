// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reelsync

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/reelsync/errs"
	"github.com/zintix-labs/reelsync/recorder"
	"github.com/zintix-labs/reelsync/sdk/anim"
	"github.com/zintix-labs/reelsync/sdk/core"
	"github.com/zintix-labs/reelsync/sdk/slot"
	"github.com/zintix-labs/reelsync/spec"
	"github.com/zintix-labs/reelsync/stats"
)

const capPrepare int = 100

// Simulator 以多台機台平行出盤並紀錄統計。
//
// 循環輪帶模式下每盤也會實際跑一次對齊（跳過動畫），統計覆寫次數。
type Simulator struct {
	GameName  string
	Mode      string
	Bet       float64                  // 每局押注，預設為設定檔的 initial_bet
	initBets  int                      // 玩家本金（以局數計）
	gs        *spec.GameSetting        // 重用建立機台與紀錄員
	cf        core.PRNGFactory         // 亂數工廠
	initSeed  int64                    // 初始種子
	seedmaker *seedMaker               // 併發機台的種子來源
	wBuf      []*simWorker             // 併發機台
	rBuf      []*recorder.SpinRecorder // 併發紀錄員
	sBuf      []*stats.StatReport      // 玩家報表（僅 SimPlayers）
}

// simWorker 一台機台加上它專用的對齊動畫；一個 worker 只給一個 goroutine 使用。
type simWorker struct {
	m  *slot.Machine
	sp *anim.Spinner
}

func newSimulator(gs *spec.GameSetting, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	s := &Simulator{
		GameName:  gs.GameName,
		Mode:      gs.DrawMode.String(),
		Bet:       gs.Bet.InitialBet,
		gs:        gs,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		wBuf:      make([]*simWorker, 0, capPrepare),
		rBuf:      make([]*recorder.SpinRecorder, 0, capPrepare),
		sBuf:      make([]*stats.StatReport, 0, capPrepare),
	}
	w, err := s.newWorker(seed)
	if err != nil {
		return nil, err
	}
	s.wBuf = append(s.wBuf, w)
	return s, nil
}

// Seed 初始種子，第一台機台使用此種子，其餘由 seedMaker 推導。
func (s *Simulator) Seed() int64 {
	return s.initSeed
}

// Sim 單機台連續跑 rounds 局，回傳統計與用時。
func (s *Simulator) Sim(rounds int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if err := s.valid(rounds, 1); err != nil {
		return nil, 0, err
	}
	if err := s.prepare(1, 1); err != nil {
		return nil, 0, err
	}
	w, r := s.wBuf[0], s.rBuf[0]

	bar := newBar(rounds, showpb)
	for range rounds {
		w.spin(r, s.Bet)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	return r.Done(), used, nil
}

// SimMP 平行 mp 台機台各跑 rounds 局，合併後回傳統計與用時。
func (s *Simulator) SimMP(rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if err := s.valid(rounds, mp); err != nil {
		return nil, 0, err
	}
	if err := s.prepare(mp, mp); err != nil {
		return nil, 0, err
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(rounds*mp, showpb)
	for i := range mp {
		go func(w *simWorker, r *recorder.SpinRecorder) {
			defer wg.Done()
			for range rounds {
				w.spin(r, s.Bet)
				bar.Increment()
			}
		}(s.wBuf[i], s.rBuf[i])
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	st, err := recorder.MergeSpinRecorder(s.rBuf[:mp])
	if err != nil {
		return nil, 0, err
	}
	return st.Done(), used, nil
}

// SimPlayers 模擬 players 位玩家各帶 initBets 局本金，最多玩 rounds 局，
// 破產或達到出場線即離場。回傳機台報表、玩家體驗估計與用時。
func (s *Simulator) SimPlayers(mp int, players int, initBets int, rounds int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	defer s.reset()
	if players < 1 || initBets < 1 {
		return nil, nil, 0, errs.NewWarn("invalid param: players and init bets must > 0")
	}
	if err := s.valid(rounds, mp); err != nil {
		return nil, nil, 0, err
	}
	s.initBets = initBets
	if err := s.prepare(mp, players); err != nil {
		return nil, nil, 0, err
	}

	// 玩家依序排入，閒置的機台接手下一位
	jobs := make(chan *recorder.SpinRecorder, 2048)
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(players, showpb)
	for i := range mp {
		go s.wBuf[i].play(wg, jobs, s.Bet, rounds, bar)
	}
	for _, j := range s.rBuf[:players] {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	record, err := recorder.MergeSpinRecorder(s.rBuf[:players])
	if err != nil {
		return nil, nil, 0, err
	}
	st := record.Done()

	s.sBuf = s.sBuf[:0]
	for _, r := range s.rBuf[:players] {
		s.sBuf = append(s.sBuf, r.Done())
	}
	est := stats.EstimatorPlayerExp(s.sBuf)
	return st, est, used, nil
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (s *Simulator) valid(rounds int, mp int) error {
	if rounds < 1 {
		return errs.NewWarn("rounds must > 0")
	}
	if mp < 1 {
		return errs.NewWarn("workers must > 0")
	}
	if !(s.Bet > 0) {
		return errs.Warnf("bet must > 0, got %v", s.Bet)
	}
	return nil
}

// prepare 補齊 mp 台機台與 n 個紀錄員；紀錄員每次模擬都重建。
func (s *Simulator) prepare(mp int, n int) error {
	for len(s.wBuf) < mp {
		w, err := s.newWorker(s.seedmaker.next())
		if err != nil {
			return err
		}
		s.wBuf = append(s.wBuf, w)
	}
	s.rBuf = s.rBuf[:0]
	for range n {
		r, err := recorder.NewSpinRecorder(s.GameName, s.Mode, s.Bet, s.initBets)
		if err != nil {
			return err
		}
		s.rBuf = append(s.rBuf, r)
	}
	return nil
}

func (s *Simulator) newWorker(seed int64) (*simWorker, error) {
	m, err := slot.NewMachine(s.gs, core.New(s.cf.New(seed)))
	if err != nil {
		return nil, err
	}
	w := &simWorker{m: m}
	if m.Animated() {
		if w.sp, err = m.NewSpinner(); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
	s.sBuf = s.sBuf[:0]
	s.initBets = 0
}

// spin 出一盤並紀錄；循環輪帶模式下順帶對齊並累計覆寫軸數。
func (w *simWorker) spin(r *recorder.SpinRecorder, bet float64) bool {
	out := w.m.Spin(bet)
	w.align(r, out)
	return r.RecordWithPlayer(out)
}

func (w *simWorker) align(r *recorder.SpinRecorder, out slot.Outcome) {
	if w.sp == nil {
		return
	}
	w.sp.Start(out.Grid.Columns())
	w.sp.Finish()
	n := 0
	for _, a := range w.sp.Alignments() {
		if a.Spliced {
			n++
		}
	}
	r.RecordSplices(n)
}

func (w *simWorker) play(wg *sync.WaitGroup, jobs <-chan *recorder.SpinRecorder, bet float64, rounds int, bar *pb.ProgressBar) {
	defer wg.Done()
	for j := range jobs {
		for range rounds {
			if w.spin(j, bet) {
				break
			}
		}
		bar.Increment()
	}
}

func newBar(total int, show bool) *pb.ProgressBar {
	bar := pb.StartNew(total)
	if !show {
		bar.SetWriter(io.Discard)
	}
	return bar
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以 CAS 推進全週期 LCG，再經可逆 mix63 打散；併發呼叫也不會拿到重複的值。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的位移互斥或與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
