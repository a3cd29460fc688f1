package render

// layoutTemplate is the shared page shell. The CSS is inlined so every page
// is a single self-contained file on GitHub Pages.
const layoutTemplate = `{{define "layout"}}<!doctype html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{if .Noindex}}<meta name="robots" content="noindex,nofollow">{{end}}
<title>{{.Title}}</title>
<style>
:root{--primary:#172554;--primary-light:#1e3a8a;--bg-color:#f8fafc;--surface:#fff;--surface-border:#e2e8f0;--text-main:#0f172a;--text-sub:#334155;--text-light:#64748b;--warning-bg:#fef2f2;--warning-text:#b91c1c;--shadow-card:0 4px 6px -1px rgba(0,0,0,.05)}
*{box-sizing:border-box}body{font-family:'Pretendard',-apple-system,system-ui,Roboto,sans-serif;line-height:1.6;margin:0;color:var(--text-main);background:var(--bg-color)}
.wrap{max-width:480px;margin:0 auto;min-height:100vh;display:flex;flex-direction:column;background:#f8fafc}
.page-container{padding:40px 24px;display:flex;flex-direction:column;gap:28px;flex:1}
a{text-decoration:none;color:inherit}
.clinic-title{font-size:2rem;font-weight:800;margin:0 0 10px 0;line-height:1.2;word-break:keep-all}
.brand-meta{display:flex;align-items:center;gap:8px}
.badge{font-size:.75rem;font-weight:700;padding:5px 10px;border-radius:6px;text-transform:uppercase}
.badge.active{background:var(--primary);color:#fff}
.badge.inactive{background:var(--warning-bg);color:var(--warning-text);border:1px solid #fee2e2}
.validity-inline{font-size:.8rem;color:var(--text-light);margin:6px 0 0 0}
.cta-row{display:grid;grid-template-columns:1fr 1fr;gap:12px}
.cta-row > .btn:first-child{grid-column:span 2}
.btn{display:inline-flex;align-items:center;justify-content:center;gap:8px;padding:16px;border-radius:12px;font-weight:700;font-size:1rem}
.btn-primary{background:var(--primary);color:#fff}
.btn-secondary{background:#fff;border:1px solid #cbd5e1;box-shadow:var(--shadow-card)}
.btn-tertiary{color:var(--text-sub);text-decoration:underline;text-underline-offset:4px}
.action-guide{font-size:.9rem;color:var(--text-sub);text-align:center;margin-top:16px;font-weight:600}
.status-message{padding:20px;border-radius:12px;background:#fff;border:1px solid #e2e8f0;box-shadow:var(--shadow-card)}
.status-message.success{border-left:4px solid var(--primary);background:#f1f5f9}
.status-message.warning{background:#fff1f2;border-left:4px solid var(--warning-text)}
.main-msg{margin:0}.main-msg strong{color:var(--primary);font-weight:800}
.sub-msg{margin:8px 0 0 0;font-size:.9rem;color:var(--text-sub);padding-top:8px;border-top:1px dashed #cbd5e1}
.card{background:var(--surface);border-radius:16px;padding:28px 24px;box-shadow:var(--shadow-card);border:1px solid var(--surface-border)}
.info-grid{display:flex;flex-direction:column;gap:18px}
.info-item{display:flex;justify-content:space-between;padding-bottom:14px;border-bottom:1px solid #e2e8f0}
.info-item:last-child{border-bottom:none;padding-bottom:0}
.label{font-size:.95rem;color:var(--text-sub);font-weight:600;width:70px;flex-shrink:0}
.value{font-size:1rem;font-weight:600;text-align:right;word-break:keep-all}
.value a{color:var(--primary-light);text-decoration:underline;text-underline-offset:3px}
.section-footer{margin-top:auto;padding-top:40px;text-align:center}
.footer-msg{font-size:.75rem;color:var(--text-light);margin-bottom:20px}
.footer-meta{display:flex;justify-content:center;gap:10px;font-size:.7rem;color:var(--text-light)}
.empty-state{text-align:center;padding:60px 20px}
.icon-area{font-size:2.5rem;font-weight:900;color:#e2e8f0;margin-bottom:20px}
.empty-state.error .icon-area{color:#fca5a5}
.page-title{font-size:1.1rem;font-weight:800;margin:0 0 12px 0}
.meta-info{font-size:.85rem;color:var(--text-light)}
.zip-list{list-style:none;padding:0;margin:0}
.zip-list li{margin-bottom:8px}
.file-link{display:flex;align-items:center;gap:8px;padding:10px 12px;background:#fff;border:1px solid #e2e8f0;border-radius:10px}
.file-icon{font-size:.7rem;font-weight:700;background:var(--primary);color:#fff;padding:2px 6px;border-radius:4px}
</style>
{{if .Analytics.Enabled}}<script async src="https://www.googletagmanager.com/gtag/js?id={{.Analytics.MeasurementID}}"></script>
<script>
window.dataLayer = window.dataLayer || [];
function gtag(){dataLayer.push(arguments);}
gtag('js', new Date());
gtag('config', {{.Analytics.MeasurementID}}, {'anonymize_ip': true});
document.addEventListener('DOMContentLoaded', function(){
  var container = document.querySelector('[data-page-type="clinic"]');
  if (!container) { return; }
  var clinicId = container.getAttribute('data-clinic-id') || '';
  if (!clinicId) { return; }
  gtag('event', 'qr_view', {clinic_id: clinicId});
  container.querySelectorAll('[data-analytics-event]').forEach(function(el){
    el.addEventListener('click', function(){
      gtag('event', el.getAttribute('data-analytics-event'), {clinic_id: clinicId});
    });
  });
});
</script>{{end}}
</head>
<body>
<main class="wrap">
{{template "body" .Page}}
</main>
</body>
</html>
{{end}}`

// clinicTemplate is the per-clinic landing page body.
const clinicTemplate = `{{define "body"}}{{$r := .Record}}<div class="page-container" data-page-type="clinic" data-clinic-id="{{$r.ClinicID}}">
<header class="section-brand">
<h1 class="clinic-title">{{$r.ClinicName}}</h1>
<div class="brand-meta">
{{if .Active}}<span class="badge active">정회원</span>{{else}}<span class="badge inactive">미확인</span>{{end}}
</div>
<p class="validity-inline">인증기간: {{.Validity}}</p>
</header>
{{if .Active}}
<section class="section-action">
<div class="cta-row">
{{with telHref $r.Phone}}<a href="{{.}}" class="btn btn-primary" data-analytics-event="click_call" data-clinic-id="{{$r.ClinicID}}"><span>전화상담</span></a>{{end}}
{{with mapURL (or $r.Address $r.ClinicName)}}<a href="{{.}}" class="btn btn-secondary" target="_blank" rel="noopener noreferrer" data-analytics-event="click_map" data-clinic-id="{{$r.ClinicID}}"><span>지도보기</span></a>{{end}}
{{with homepageURL $r.Homepage}}<a href="{{.}}" class="btn btn-tertiary" target="_blank" rel="noopener noreferrer" data-analytics-event="click_homepage" data-clinic-id="{{$r.ClinicID}}"><span>홈페이지</span></a>{{end}}
</div>
<p class="action-guide">진료 문의 및 예약은 위 버튼을 이용하세요.</p>
</section>
<div class="status-message success">
<p class="main-msg"><strong>{{$r.ClinicName}}</strong>{{josa $r.ClinicName}} {{.Year}}년 <strong>'세종특별자치시 치과의사회'</strong> 정회원입니다.</p>
<p class="sub-msg">세종시 치과의사회는 시민의 구강건강을 지키는 공식 치과의사 단체입니다.</p>
</div>
{{else}}
<div class="status-message warning">
<p class="main-msg">현재 정회원으로 확인되지 않습니다.</p>
<p class="sub-msg">{{.MessageInactive}}</p>
</div>
{{end}}
<section class="card info-card">
<div class="info-grid">
<div class="info-item"><span class="label">대표원장</span><span class="value">{{dash $r.Director}}</span></div>
<div class="info-item"><span class="label">전화번호</span><span class="value">{{if telHref $r.Phone}}<a href="{{telHref $r.Phone}}" class="tel-link">{{$r.Phone}}</a>{{else}}{{dash $r.Phone}}{{end}}</span></div>
<div class="info-item"><span class="label">주소</span><span class="value">{{if $r.Address}}<a href="{{mapURL $r.Address}}" class="map-link" target="_blank" rel="noopener noreferrer">{{$r.Address}}</a>{{else}}-{{end}}</span></div>
<div class="info-item"><span class="label">홈페이지</span><span class="value">{{if homepageURL $r.Homepage}}<a href="{{homepageURL $r.Homepage}}" target="_blank" rel="noopener noreferrer">{{homepageText $r.Homepage}}</a>{{else}}{{dash $r.Homepage}}{{end}}</span></div>
</div>
</section>
<footer class="section-footer">
<p class="footer-msg">본 페이지는 <strong>세종특별자치시 치과의사회</strong>가 공식 정보를 보증하는 의료기관 안내입니다.</p>
<div class="footer-meta">
<span>인증기간: {{.Validity}}</span>
<span>Updated: {{.BuildTimestamp}}</span>
</div>
</footer>
</div>{{end}}`

// simpleTemplate covers the root index and 404 pages.
const simpleTemplate = `{{define "body"}}<div class="page-container">
<div class="card empty-state{{if .Error}} error{{end}}">
<div class="icon-area">{{if .Error}}!{{else}}QR{{end}}</div>
<h1>{{.Heading}}</h1>
<p>{{.Message}}</p>
</div>
</div>{{end}}`

// outboxTemplate is the operator-facing outbox download page.
const outboxTemplate = `{{define "body"}}<div class="page-container">
<div class="card">
<h1 class="page-title">Outbox 다운로드</h1>
<p class="meta-info">최종 업데이트: {{.BuildTimestamp}}</p>
<div class="action-area"><a href="sendlist.csv" class="btn btn-primary">sendlist.csv 다운로드</a></div>
</div>
<div class="card">
<h2 class="page-title">파일 목록</h2>
<ul class="zip-list">
{{range .ZipNames}}<li><a href="zips/{{.}}" class="file-link"><span class="file-icon">ZIP</span> {{.}}</a></li>
{{else}}<li>다운로드 가능한 파일이 없습니다.</li>
{{end}}</ul>
</div>
</div>{{end}}`
