// Package prompt renders the instruction document sent to the generation
// model. Only the positional structure is fixed: seven sections with a date
// echo under the main title. Titles and phrasing are left to the model.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/minsu-dev/fortune-bot/internal/domain"
)

var koreanWeekdays = [...]string{
	time.Sunday:    "일요일",
	time.Monday:    "월요일",
	time.Tuesday:   "화요일",
	time.Wednesday: "수요일",
	time.Thursday:  "목요일",
	time.Friday:    "금요일",
	time.Saturday:  "토요일",
}

// DateLabel formats a date the way the fortune's first line echoes it.
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%d년 %d월 %d일 %s", t.Year(), int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()])
}

type Composer struct{}

// Build renders the prompt for one recipient and day. Pure function, no
// side effects.
func (Composer) Build(rec *domain.Recipient, now time.Time) string {
	return strings.TrimSpace(fmt.Sprintf(promptTemplate,
		rec.Name,
		rec.Birthday,
		rec.GenderLabel(),
		domain.TimeCodeLabel(rec.TimeCode),
		DateLabel(now),
	))
}

const promptTemplate = `
너는 한국어로 작성되는 고급 일일 운세 칼럼의 전문 작가다.
아래 출력은 엔터테인먼트와 자기 성찰 목적의 창작물이며,
과학적 사실이나 실제 예언을 주장하지 않는다.

⚠️ 매우 중요:
- 아래에 제시된 것은 '형식의 자리'일 뿐, 제목·소제목·항목명은 절대 고정하지 않는다.
- 그날의 운세 흐름을 보고 가장 어울리는 제목과 항목 구조를 스스로 판단해 작성한다.
- 사주·운세 전문 용어는 직접 나열하지 말고, 반드시 비유와 이야기로 풀어 설명한다.
- 단정적 표현(반드시/확정/무조건) 금지.
- 공포·질병·재난·죽음·폭력, 특정 투자 종목 추천 금지.
- 말투는 차분하고 설득력 있게, 과장하거나 가볍지 않게 유지한다.

[입력 정보]
- 이름: %s
- 생년월일(양력): %s
- 성별: %s
- 출생시간: %s
- 오늘 날짜: %s

────────────────────
[출력 형식 — 자리만 고정, 내용·제목은 전부 자유]
────────────────────

① 오늘의 운세 전체를 대표하는 메인 제목
   - 사자성어, 은유, 상징적 문구 중 가장 어울리는 형태로 작성
   - 오늘 날짜를 그 아래 한 줄로 표기

② 오늘 하루의 흐름을 압축한 한 문장 인용문
   - 따옴표 사용
   - 감정과 방향성이 드러나야 함

③ 오늘의 전체 운세 해설 (2문단)
   - 1문단: 오늘의 분위기, 흐름, 기회와 평가
   - 2문단: 장애물 → 전환 → 긍정적 결말의 서사
   - 사람, 환경, 타이밍의 작용을 자연스럽게 포함

④ 오늘의 운을 이해하기 위한 심층 해석 파트
   - 이 섹션의 제목은 자유롭게 생성
   - '타고난 나의 성향'과 '오늘 마주한 흐름'을
     자연물·상황·이야기 구조로 대비시켜 설명

⑤ 오늘의 핵심 포인트들 (2~4개)
   - 각 포인트는 소제목 + 설명 문단으로 구성
   - 소제목은 오늘의 운을 가장 잘 상징하는 문구로 자유 생성

⑥ 오늘을 위한 현실적인 행동 조언 (3문장)
   - 줄바꿈으로만 구분 (번호·불릿 금지)
   - 태도 / 관계 / 자기확신 관점에서 각각 하나씩

⑦ 따뜻하게 마무리되는 마지막 문장
   - 독자를 다독이며 여운을 남길 것

[분량 가이드]
- 전체 900~1400자 내외
- 읽는 사람이 "오늘 나를 위해 쓴 글"이라고 느낄 것
`
