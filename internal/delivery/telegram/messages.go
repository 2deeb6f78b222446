// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

// Error messages.
const (
	msgInternalError        = "حدث خطأ ما. حاول مرة أخرى لاحقاً."
	msgUnknownCommand       = "أمر غير معروف. اكتب /help لعرض الأوامر المتاحة."
	msgUseSearch            = "اكتب نص البحث بعد الأمر، مثال: /search الرحمن الرحيم"
	msgUseVerse             = "حدد الآية بالسورة والرقم أو بالرقم العام، مثال: /verse 2:255"
	msgUseSimilar           = "حدد الآية، مثال: /similar 2:255"
	msgUseCompare           = "حدد آيتين، مثال: /compare 2:5 31:5"
	msgUseWord              = "اكتب الكلمة بعد الأمر، مثال: /word الرحمن"
	msgVerseNotFound        = "الآية غير موجودة."
	msgInvalidReference     = "مرجع الآية غير صحيح. استخدم الصيغة سورة:آية، مثال: 2:255"
	msgWordTooShort         = "الكلمة قصيرة جداً."
	msgNoQuestions          = "لا توجد أسئلة متاحة في هذا النطاق. جرّب نطاقاً آخر أو نوعاً آخر من الأسئلة."
	msgEmptyAnswer          = "الإجابة فارغة."
	msgInvalidScope         = "النطاق غير صحيح. الأجزاء 1-30، السور 1-114، الأثلاث 1-3."
	msgUnknownQuestionType  = "نوع السؤال غير معروف. الأنواع: continue, word_choice, distinguish, surah_name"
	msgNoActiveQuiz         = "لا يوجد اختبار نشط. ابدأ اختباراً جديداً بالأمر /quiz"
	msgAnswerConflict       = "تم تسجيل إجابة أخرى في الوقت نفسه. حاول مرة أخرى."
	msgQuestionExpired      = "انتهت صلاحية هذا السؤال."
	msgNoSearchHistory      = "لا توجد عمليات بحث سابقة."
	msgResetConfirm         = "سيتم حذف نتائج الاختبارات وسجل البحث. هل أنت متأكد؟"
	msgResetDone            = "تم حذف بياناتك."
	msgResetCanceled        = "تم الإلغاء."
	msgNothingFound         = "لم يتم العثور على نتائج."
	msgNoSimilar            = "لا توجد آيات متشابهة."
	msgChooseQuizType       = "اختر نوع الأسئلة:"
	msgAnswerWithText       = "✍️ اكتب إجابتك في رسالة."
	msgSearchFallbackNotice = "لم يُعثر على تطابق تام، هذه أقرب النتائج:"
)

const msgWelcome = "<b>السلام عليكم ورحمة الله وبركاته</b>\n\n" +
	"أهلاً بك في بوت المصحف. يساعدك البوت على البحث في آيات القرآن الكريم " +
	"واكتشاف الآيات المتشابهة واختبار حفظك.\n\n" +
	"اكتب أي كلمة أو جزء من آية للبحث، أو اكتب /help لعرض الأوامر."

const msgHelp = "<b>الأوامر المتاحة</b>\n\n" +
	"/search نص - البحث في الآيات (أو اكتب النص مباشرة)\n" +
	"/verse 2:255 - عرض آية\n" +
	"/similar 2:255 - الآيات المتشابهة\n" +
	"/compare 2:5 31:5 - مقارنة آيتين\n" +
	"/word كلمة - إحصائيات كلمة\n" +
	"/stats - إحصائيات المصحف\n" +
	"/quiz [النوع] [النطاق الرقم] - اختبار الحفظ، مثال: /quiz continue juz 30\n" +
	"/stop - إنهاء الاختبار\n" +
	"/history - آخر عمليات البحث\n" +
	"/reset - حذف بياناتك"

func questionTypeLabel(qt entities.QuestionType) string {
	switch qt {
	case entities.QuestionContinue:
		return "✍️ أكمل الآية"
	case entities.QuestionWordChoice:
		return "🔤 اختر الكلمة الناقصة"
	case entities.QuestionDistinguish:
		return "🔍 ميّز الآية"
	case entities.QuestionSurahName:
		return "📖 اسم السورة"
	default:
		return string(qt)
	}
}

func verseHeader(v entities.Verse) string {
	return fmt.Sprintf("%s (%s) · الجزء %d", bold("سورة "+v.SurahName), v.Ref(), v.Juz)
}

func formatVerse(v entities.Verse) string {
	return verseHeader(v) + "\n\n" + escape(v.Text)
}

func formatSearchResults(res *entities.SearchResults, limit int) string {
	if len(res.Results) == 0 {
		return msgNothingFound
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 نتائج البحث عن %s: %d\n", bold(res.Query), len(res.Results)))
	if res.Fallback {
		sb.WriteString(msgSearchFallbackNotice + "\n")
	}

	for i, r := range res.Results {
		if i >= limit {
			break
		}

		text := r.HighlightedText
		if text == "" {
			text = escape(r.Text)
		}

		entry := fmt.Sprintf("\n%d. %s\n%s\n", i+1, verseHeader(r.Verse), text)
		if r.MatchType == entities.MatchLexical {
			entry += fmt.Sprintf("التشابه: %.0f%%\n", r.Similarity*100)
		}

		if !fits(&sb, entry) {
			break
		}
		sb.WriteString(entry)
	}

	return sb.String()
}

// formatSimilarPage renders one page of similar verses and returns the
// verses shown on it.
func formatSimilarPage(
	v *entities.Verse, similar []entities.SimilarVerse, page, pageSize int,
) (text string, shown []entities.SimilarVerse, totalPages int) {
	var sb strings.Builder
	sb.WriteString(formatVerse(*v))
	sb.WriteString("\n\n")

	if len(similar) == 0 {
		sb.WriteString(msgNoSimilar)
		return sb.String(), nil, 0
	}

	totalPages = (len(similar) + pageSize - 1) / pageSize
	page = max(0, min(page, totalPages-1))
	shown = similar[page*pageSize : min(len(similar), (page+1)*pageSize)]

	sb.WriteString(fmt.Sprintf("🔁 الآيات المتشابهة: %d (صفحة %d من %d)\n", len(similar), page+1, totalPages))
	for i, s := range shown {
		entry := fmt.Sprintf("\n%d. %s · %.0f%%\n%s\n", page*pageSize+i+1, verseHeader(s.Verse), s.Similarity*100, escape(s.Text))
		if !fits(&sb, entry) {
			break
		}
		sb.WriteString(entry)
	}

	return sb.String(), shown, totalPages
}

func formatComparison(c *entities.Comparison) string {
	return fmt.Sprintf(
		"⚖️ %s\n\n%s\n%s\n\n%s\n%s",
		fmt.Sprintf("نسبة التشابه: %.0f%%", c.Similarity*100),
		verseHeader(c.Verse1),
		renderSegments(c.Highlighted1),
		verseHeader(c.Verse2),
		renderSegments(c.Highlighted2),
	)
}

func formatOverview(o entities.Overview) string {
	return fmt.Sprintf(
		"<b>📊 إحصائيات المصحف</b>\n\n"+
			"📖 الآيات: %d\n"+
			"📚 السور: %d\n"+
			"🧩 الأجزاء: %d\n"+
			"🔤 الكلمات المفهرسة: %d",
		o.TotalVerses,
		o.TotalSurahs,
		o.TotalJuz,
		o.IndexedWords,
	)
}

func formatWordStats(s *entities.WordStats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>📊 كلمة %s</b>\n\n", escape(s.Word)))

	if s.TotalCount == 0 {
		sb.WriteString(msgNothingFound)
		if len(s.Suggestions) > 0 {
			sb.WriteString("\n\nهل تقصد: " + escape(strings.Join(s.Suggestions, "، ")))
		}
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("عدد المرات: %d\nعدد الآيات: %d\n", s.TotalCount, s.VersesCount))

	writeBuckets := func(title string, buckets []entities.Bucket) {
		sb.WriteString("\n" + bold(title) + "\n")
		for i, b := range buckets {
			if i >= 5 {
				break
			}
			sb.WriteString(fmt.Sprintf("• %s: %d\n", escape(b.Label), b.Count))
		}
	}
	writeBuckets("أكثر السور", s.BySurah)
	writeBuckets("أكثر الأجزاء", s.ByJuz)

	sb.WriteString("\n" + bold("أمثلة") + "\n")
	for _, m := range s.Matches {
		entry := fmt.Sprintf("%s ×%d\n%s\n", verseHeader(m.Verse), m.Count, escape(m.Verse.Text))
		if !fits(&sb, entry) {
			break
		}
		sb.WriteString(entry)
	}

	return sb.String()
}

func formatHistory(entries []entities.SearchHistoryEntry) string {
	if len(entries) == 0 {
		return msgNoSearchHistory
	}

	var sb strings.Builder
	sb.WriteString("<b>🕘 آخر عمليات البحث</b>\n\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, escape(e.Query)))
	}
	return sb.String()
}

func formatQuizStart(s *entities.QuizSession) string {
	text := fmt.Sprintf("🧠 بدأ الاختبار: %s\nالنطاق: %s", questionTypeLabel(s.QuestionType), escape(s.Scope.Label()))
	if s.Expert {
		text += "\nالمستوى: متقدم"
	}
	return text
}

func formatQuestion(q *entities.Question) string {
	var sb strings.Builder

	switch q.Type {
	case entities.QuestionContinue:
		sb.WriteString(bold("أكمل الكلمات الناقصة:") + "\n\n")
		sb.WriteString(escape(q.Text))
	case entities.QuestionWordChoice:
		sb.WriteString(bold("اختر الكلمة الناقصة:") + "\n\n")
		sb.WriteString(escape(q.Text))
	case entities.QuestionSurahName:
		sb.WriteString(bold("في أي سورة هذه الآية؟") + "\n\n")
		sb.WriteString(escape(q.Text))
	default:
		sb.WriteString(bold(q.Text))
	}

	if longOptions(q.Options) {
		sb.WriteString("\n")
		for i, o := range q.Options {
			sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, escape(o)))
		}
	}

	if !q.HasOptions() {
		sb.WriteString("\n\n" + msgAnswerWithText)
	}

	return sb.String()
}

func formatAnswerFeedback(res *entities.QuizResult, v entities.Verse) string {
	var sb strings.Builder
	if res.Correct {
		sb.WriteString("✅ إجابة صحيحة!")
	} else {
		sb.WriteString("❌ إجابة خاطئة.\nالإجابة الصحيحة: " + escape(res.CorrectAnswer))
	}
	sb.WriteString("\n\n" + verseHeader(v))
	sb.WriteString(fmt.Sprintf("\n\nالنقاط: %d · الأسئلة: %d", res.Score, res.Answered))
	return sb.String()
}

func formatQuizSummary(s *entities.QuizSession) string {
	return fmt.Sprintf(
		"<b>🏁 انتهى الاختبار</b>\n\n%s\n\n✅ الإجابات الصحيحة: %d من %d\n⭐ النقاط: %d",
		buildProgressBar(s.CorrectAnswers, s.AnsweredCount, 10),
		s.CorrectAnswers,
		s.AnsweredCount,
		s.Score,
	)
}
